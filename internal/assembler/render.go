package assembler

import "strings"

// DefaultHeader is the provenance comment written above each fragment.
// The {name} placeholder is replaced with the fragment ID.
const DefaultHeader = "// ======== FROM {name} ========"

// NamePlaceholder marks where the fragment ID goes in a header template.
const NamePlaceholder = "{name}"

// Renderer turns fragment bodies into indented blocks ready for injection.
type Renderer struct {
	Indent string // prefix for every non-blank line
	Header string // header template; DefaultHeader when empty
}

// Render returns the block for one fragment: the indented header line
// followed by the indented body.
func (r Renderer) Render(id, body string) string {
	header := r.Header
	if header == "" {
		header = DefaultHeader
	}
	line := strings.ReplaceAll(header, NamePlaceholder, id)
	return r.Indent + line + "\n" + RenderBody(body, r.Indent)
}

// Render renders a fragment with DefaultHeader.
func Render(id, body, indent string) string {
	return Renderer{Indent: indent}.Render(id, body)
}

// RenderBody prefixes every non-blank line of body with indent. Blank and
// whitespace-only lines are kept as they are so no trailing whitespace is
// introduced.
func RenderBody(body, indent string) string {
	if indent == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
