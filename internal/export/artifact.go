// Package export writes assembly results to disk: the artifact itself and
// an optional JSON build manifest.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File is one output of a build.
type File struct {
	Path string
	Data []byte
}

// WriteArtifact writes data to path, creating the parent directory when
// needed. The data goes to a temporary file in the same directory first and
// is renamed into place, so a failed write never leaves a truncated file.
// An existing file at path is replaced.
func WriteArtifact(path string, data []byte) error {
	return WriteFiles(File{Path: path, Data: data})
}

// WriteFiles writes every file the way WriteArtifact does, but stages all of
// them before renaming any. A failure while staging leaves every target
// untouched.
func WriteFiles(files ...File) error {
	staged := make([]string, 0, len(files))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp) // no-op after a successful rename
		}
	}()

	for _, f := range files {
		tmp, err := stage(f.Path, f.Data)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	var errs []error
	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			errs = append(errs, fmt.Errorf("replacing %s: %w", f.Path, err))
		}
	}
	return errors.Join(errs...)
}

// stage writes data to a hidden temp file next to path and returns its name.
func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return name, nil
}
