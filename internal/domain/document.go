package domain

import "strings"

// Document is transcript text extracted from a source file or page.
type Document struct {
	Title string

	// Text holds the raw transcript; paragraphs are separated by Delimiter.
	Text      string
	Delimiter string
}

// Paragraphs splits the text on the delimiter, trims each piece and drops
// the empty ones.
func (d *Document) Paragraphs() []string {
	if d.Delimiter == "" {
		if p := strings.TrimSpace(d.Text); p != "" {
			return []string{p}
		}
		return nil
	}
	var out []string
	for _, part := range strings.Split(d.Text, d.Delimiter) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
