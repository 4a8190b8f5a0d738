package status

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/assembler"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	labelColor = color.New(color.Faint)
	nameColor  = color.New(color.FgCyan)
)

// Summary describes a finished build.
type Summary struct {
	Output    string   // artifact path as shown to the user
	Lines     int      // newline count of the artifact
	Bytes     int      // artifact size in bytes
	Fragments int      // number of fragments combined
	Names     []string // fragment IDs in resolved order
}

// Summarize builds the Summary for res written to output.
func Summarize(res *assembler.Result, output string) Summary {
	return Summary{
		Output:    output,
		Lines:     strings.Count(res.Artifact, "\n"),
		Bytes:     len(res.Artifact),
		Fragments: len(res.Order),
		Names:     append([]string(nil), res.Order...),
	}
}

// Print writes the success report for s to w.
func Print(w io.Writer, s Summary) {
	fmt.Fprintf(w, "%s Built %s\n", okColor.Sprint("✓"), s.Output)
	fmt.Fprintf(w, "   %s\n", labelColor.Sprintf("%d lines, %s", s.Lines, humanize.IBytes(uint64(s.Bytes))))
	fmt.Fprintf(w, "   Combined %d fragment%s\n", s.Fragments, plural(s.Fragments))
	if len(s.Names) > 0 {
		names := make([]string, len(s.Names))
		for i, n := range s.Names {
			names[i] = nameColor.Sprint(n)
		}
		fmt.Fprintf(w, "   Files included: %s\n", strings.Join(names, ", "))
	}
}

// DisplayPath returns path relative to base when it lies below base, in the
// dot-relative form used by the CLI output.
func DisplayPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
