package port

import (
	"context"

	"hearing/internal/domain"
)

// Tokenizer turns one paragraph of text into tagged tokens.
type Tokenizer interface {
	// Tokenize splits text into tokens carrying entity-type and
	// sentence-start annotations.
	Tokenize(ctx context.Context, text string) ([]domain.Token, error)

	// Name identifies the tokenizer in logs.
	Name() string
}
