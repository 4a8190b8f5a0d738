// Package source reads the inputs of an assembly from disk: it discovers
// fragment files, reads them, and decodes them to UTF-8 text.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Discover returns the IDs of the files in dir matching pattern. IDs are
// slash-separated paths relative to dir, sorted. Pattern uses doublestar
// syntax, so "**/*.js" also finds fragments in subdirectories. Hidden files
// and files in hidden directories are skipped.
//
// A missing dir yields no fragments and a warning. Any other I/O error is
// returned.
func Discover(dir, pattern string, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("fragment directory does not exist", zap.String("dir", dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat fragment dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fragment dir %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, dir, err)
	}

	ids := matches[:0]
	for _, m := range matches {
		if !hidden(m) {
			ids = append(ids, m)
		}
	}
	sort.Strings(ids)

	log.Debug("discovered fragments",
		zap.String("dir", dir),
		zap.String("pattern", pattern),
		zap.Int("count", len(ids)))
	return ids, nil
}

func hidden(id string) bool {
	for _, part := range strings.Split(id, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
