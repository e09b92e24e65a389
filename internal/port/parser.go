package port

import (
	"io"

	"hearing/internal/domain"
)

// Parser extracts transcript text from a raw document.
type Parser interface {
	Parse(r io.Reader, filename string) (*domain.Document, error)
}
