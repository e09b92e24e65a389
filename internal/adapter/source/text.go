package source

import (
	"fmt"
	"io"

	"hearing/internal/domain"
)

// TextParser handles plain text transcripts. The text is kept as is and
// split into paragraphs on the delimiter.
type TextParser struct {
	Delimiter string
}

func (p *TextParser) Parse(r io.Reader, filename string) (*domain.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return &domain.Document{
		Title:     baseTitle(filename, ".txt", ".text"),
		Text:      string(data),
		Delimiter: p.Delimiter,
	}, nil
}
