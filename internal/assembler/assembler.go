// Package assembler merges a template document and a set of text fragments
// into one artifact.
//
// The pipeline has three pure steps: Resolve picks the fragment order,
// Renderer indents each fragment under a provenance header, and Inject
// splices the joined blocks into the template in front of the anchor.
// Nothing in this package touches the filesystem.
package assembler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateFragment is returned when two fragments share an ID.
var ErrDuplicateFragment = errors.New("duplicate fragment")

// BlockSeparator joins rendered blocks in the artifact.
const BlockSeparator = "\n\n"

// Fragment is one unit of injectable text.
type Fragment struct {
	ID   string // identifier, usually the path relative to the fragment dir
	Body string
}

// Options controls one assembly.
type Options struct {
	// Order lists preferred fragment IDs. Unknown IDs are ignored.
	Order []string

	// Indent is prepended to every non-blank fragment line.
	Indent string

	// Anchor marks the injection point in the template.
	Anchor string

	// Header is the provenance header template. DefaultHeader when empty.
	Header string
}

// Result is the outcome of a successful assembly.
type Result struct {
	Artifact  string
	Order     []string   // fragment IDs in resolved order
	Fragments []Fragment // fragments in resolved order
}

// Assemble resolves, renders and injects fragments into template.
func Assemble(template string, fragments []Fragment, opts Options) (*Result, error) {
	byID := make(map[string]Fragment, len(fragments))
	ids := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if _, ok := byID[f.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFragment, f.ID)
		}
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}

	order := Resolve(ids, opts.Order)
	r := Renderer{Indent: opts.Indent, Header: opts.Header}

	blocks := make([]string, 0, len(order))
	resolved := make([]Fragment, 0, len(order))
	for _, id := range order {
		f := byID[id]
		blocks = append(blocks, r.Render(f.ID, f.Body))
		resolved = append(resolved, f)
	}

	artifact, err := Inject(template, opts.Anchor, strings.Join(blocks, BlockSeparator))
	if err != nil {
		return nil, fmt.Errorf("inject: %w", err)
	}

	return &Result{
		Artifact:  artifact,
		Order:     order,
		Fragments: resolved,
	}, nil
}
