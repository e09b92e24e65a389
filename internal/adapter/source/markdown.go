package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"hearing/internal/domain"
)

// MarkdownParser handles Markdown transcripts using goldmark. Each block
// becomes a paragraph; the first level-one heading is the title.
type MarkdownParser struct {
	Delimiter string
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*domain.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var title string
	var blocks []string
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && title == "" {
				title = inlineText(node, src)
			}
			return
		case *ast.Paragraph, *ast.TextBlock:
			if t := strings.TrimSpace(inlineText(node, src)); t != "" {
				blocks = append(blocks, t)
			}
			return
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if t := strings.TrimSpace(blockLines(node, src)); t != "" {
				blocks = append(blocks, t)
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(doc)

	out := &domain.Document{
		Title:     baseTitle(filename, ".md", ".markdown"),
		Delimiter: blockDelimiter(p.Delimiter),
	}
	if title != "" {
		out.Title = title
	}
	out.Text = strings.Join(blocks, out.Delimiter)
	return out, nil
}

// inlineText renders the inline content of n. Soft line breaks become
// spaces, hard line breaks newlines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			switch {
			case t.HardLineBreak():
				buf.WriteByte('\n')
			case t.SoftLineBreak():
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
