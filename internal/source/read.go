package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/assembler"
)

// ReadText reads the file at path and decodes it.
func ReadText(path string) (string, error) {
	return readWith(path, Decode)
}

// ReadTemplate reads and decodes the template document. A UTF-8 BOM is kept
// so the artifact matches the template byte for byte outside the anchor.
func ReadTemplate(path string) (string, error) {
	text, err := readWith(path, DecodeVerbatim)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return text, nil
}

// ReadFragments reads every fragment named in ids from dir. The first
// failure aborts the read; no partial set is returned.
func ReadFragments(dir string, ids []string) ([]assembler.Fragment, error) {
	fragments := make([]assembler.Fragment, 0, len(ids))
	for _, id := range ids {
		body, err := ReadText(filepath.Join(dir, filepath.FromSlash(id)))
		if err != nil {
			return nil, fmt.Errorf("reading fragment %s: %w", id, err)
		}
		fragments = append(fragments, assembler.Fragment{ID: id, Body: body})
	}
	return fragments, nil
}

func readWith(path string, decode func([]byte) (string, error)) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}
