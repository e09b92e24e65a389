package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"

	"hearing/internal/domain"
)

// Loader reads transcript documents from files or URLs, parses them and
// cuts out the configured section.
type Loader struct {
	registry    *Registry
	fetcher     *Fetcher
	startMarker string
	endMarker   string
	log         *slog.Logger
}

// NewLoader creates a loader. Empty markers disable section cutting.
func NewLoader(registry *Registry, fetcher *Fetcher, startMarker, endMarker string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		registry:    registry,
		fetcher:     fetcher,
		startMarker: startMarker,
		endMarker:   endMarker,
		log:         log,
	}
}

// Load reads location, a file path or http(s) URL. The format is detected
// from the name unless format is set.
func (l *Loader) Load(ctx context.Context, location, format string) (*domain.Document, error) {
	if IsURL(location) {
		res, err := l.fetcher.Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		l.log.Debug("fetched transcript", "url", location, "bytes", len(res.Body), "content_type", res.ContentType)
		if format == "" {
			format = l.detectResource(res)
		}
		return l.Parse(bytes.NewReader(res.Body), res.Name, format)
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return l.Parse(f, location, format)
}

// detectResource falls back to the content type when the URL path has no
// recognizable extension.
func (l *Loader) detectResource(res *Resource) string {
	if format, err := l.registry.Detect(res.Name); err == nil {
		return format
	}
	mediaType, _, err := mime.ParseMediaType(res.ContentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return FormatHTML
	case "text/plain":
		return FormatText
	case "text/markdown":
		return FormatMarkdown
	case "application/pdf":
		return FormatPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX
	}
	return ""
}

// Parse parses r as format, detecting it from name when format is empty,
// then applies the section markers.
func (l *Loader) Parse(r io.Reader, name, format string) (*domain.Document, error) {
	var err error
	if format == "" {
		if format, err = l.registry.Detect(name); err != nil {
			return nil, err
		}
	}
	parser, err := l.registry.Parser(format)
	if err != nil {
		return nil, err
	}

	doc, err := parser.Parse(r, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s as %s: %w", name, format, err)
	}

	if l.startMarker != "" || l.endMarker != "" {
		doc.Text, err = Cut(doc.Text, l.startMarker, l.endMarker)
		if err != nil {
			return nil, fmt.Errorf("cut %s: %w", name, err)
		}
	}
	l.log.Debug("parsed transcript", "name", name, "format", format, "bytes", len(doc.Text))
	return doc, nil
}
