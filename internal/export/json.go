package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/assembler"
)

// Manifest is the JSON record of one build.
type Manifest struct {
	BuiltAt   string             `json:"builtAt"`
	Template  string             `json:"template"`
	Output    string             `json:"output"`
	Bytes     int                `json:"bytes"`
	SHA256    string             `json:"sha256"`
	Fragments []FragmentManifest `json:"fragments"`
}

// FragmentManifest describes one fragment, listed in resolved order.
type FragmentManifest struct {
	ID    string `json:"id"`
	Bytes int    `json:"bytes"`
	Lines int    `json:"lines"`
}

// BuildManifest describes res. Paths are recorded as given.
func BuildManifest(res *assembler.Result, templatePath, outputPath string, builtAt time.Time) *Manifest {
	sum := sha256.Sum256([]byte(res.Artifact))

	m := &Manifest{
		BuiltAt:   builtAt.UTC().Format(time.RFC3339),
		Template:  templatePath,
		Output:    outputPath,
		Bytes:     len(res.Artifact),
		SHA256:    hex.EncodeToString(sum[:]),
		Fragments: make([]FragmentManifest, 0, len(res.Fragments)),
	}
	for _, f := range res.Fragments {
		m.Fragments = append(m.Fragments, FragmentManifest{
			ID:    f.ID,
			Bytes: len(f.Body),
			Lines: countLines(f.Body),
		})
	}
	return m
}

// MarshalManifest encodes m as indented JSON with a trailing newline.
func MarshalManifest(m *Manifest) ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(out, '\n'), nil
}

// countLines counts lines the way an editor shows them: a trailing newline
// does not start a new line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
