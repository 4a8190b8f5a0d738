package assembler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyAnchor is returned when no anchor is configured.
	ErrEmptyAnchor = errors.New("anchor is empty")

	// ErrAnchorNotFound is returned when the template has no anchor.
	ErrAnchorNotFound = errors.New("anchor not found in template")

	// ErrAnchorAmbiguous is returned when the anchor occurs more than once.
	ErrAnchorAmbiguous = errors.New("anchor occurs more than once in template")
)

// Inject splices payload into template directly before anchor, separated by
// a blank line. The anchor itself is kept. The template must contain the
// anchor exactly once. An empty payload still gets the blank line.
func Inject(template, anchor, payload string) (string, error) {
	if anchor == "" {
		return "", ErrEmptyAnchor
	}

	switch n := strings.Count(template, anchor); {
	case n == 0:
		return "", ErrAnchorNotFound
	case n > 1:
		return "", fmt.Errorf("%w (%d occurrences)", ErrAnchorAmbiguous, n)
	}

	i := strings.Index(template, anchor)
	var sb strings.Builder
	sb.Grow(len(template) + len(payload) + 2)
	sb.WriteString(template[:i])
	sb.WriteString(payload)
	sb.WriteString("\n\n")
	sb.WriteString(template[i:])
	return sb.String(), nil
}
