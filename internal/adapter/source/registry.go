package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"hearing/internal/port"
)

// Format names.
const (
	FormatHTML     = "html"
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
	FormatDOCX     = "docx"
)

// ErrUnsupportedFormat is returned when no parser handles a document.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DefaultFormats returns the glob patterns used to detect each format.
func DefaultFormats() map[string][]string {
	return map[string][]string{
		FormatHTML:     {"**/*.htm", "**/*.html"},
		FormatText:     {"**/*.txt", "**/*.text"},
		FormatMarkdown: {"**/*.md", "**/*.markdown"},
		FormatPDF:      {"**/*.pdf"},
		FormatDOCX:     {"**/*.docx"},
	}
}

// Registry maps document names to parsers.
type Registry struct {
	formats   map[string][]string
	order     []string
	delimiter string
}

// NewRegistry creates a registry. Parsers split paragraphs on delimiter.
func NewRegistry(formats map[string][]string, delimiter string) *Registry {
	if len(formats) == 0 {
		formats = DefaultFormats()
	}
	order := make([]string, 0, len(formats))
	for name := range formats {
		order = append(order, name)
	}
	slices.Sort(order)
	return &Registry{formats: formats, order: order, delimiter: delimiter}
}

// Detect returns the format whose patterns match name, a file path or URL path.
func (r *Registry) Detect(name string) (string, error) {
	path := strings.TrimLeft(filepath.ToSlash(strings.ToLower(name)), "/")
	for _, format := range r.order {
		for _, pattern := range r.formats[format] {
			matched, err := doublestar.Match(pattern, path)
			if err == nil && matched {
				return format, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// Parser returns the parser for a format name.
func (r *Registry) Parser(format string) (port.Parser, error) {
	switch format {
	case FormatHTML:
		return &HTMLParser{Delimiter: r.delimiter}, nil
	case FormatText:
		return &TextParser{Delimiter: r.delimiter}, nil
	case FormatMarkdown:
		return &MarkdownParser{Delimiter: r.delimiter}, nil
	case FormatPDF:
		return &PDFParser{Delimiter: r.delimiter}, nil
	case FormatDOCX:
		return &DOCXParser{Delimiter: r.delimiter}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ForFile detects the format of name and returns its parser.
func (r *Registry) ForFile(name string) (port.Parser, error) {
	format, err := r.Detect(name)
	if err != nil {
		return nil, err
	}
	return r.Parser(format)
}

// Formats returns the configured format names in detection order.
func (r *Registry) Formats() []string {
	return slices.Clone(r.order)
}

// Patterns returns every detection pattern in format order.
func (r *Registry) Patterns() []string {
	var patterns []string
	for _, format := range r.order {
		patterns = append(patterns, r.formats[format]...)
	}
	return patterns
}

// baseTitle strips the directory and any of the given extensions from filename.
func baseTitle(filename string, exts ...string) string {
	if filename == "" {
		return ""
	}
	title := filepath.Base(filename)
	lower := strings.ToLower(title)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return title[:len(title)-len(ext)]
		}
	}
	return title
}

// blockDelimiter is the separator used when a parser joins native paragraph blocks.
func blockDelimiter(d string) string {
	if d == "" {
		return "\n\n"
	}
	return d
}
