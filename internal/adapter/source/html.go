package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"hearing/internal/domain"
)

// HTMLParser handles HTML transcripts. Preformatted blocks, as published
// for congressional hearings, are used verbatim; otherwise block elements
// become paragraphs.
type HTMLParser struct {
	Delimiter string
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*domain.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &domain.Document{
		Title:     baseTitle(filename, ".html", ".htm"),
		Delimiter: p.Delimiter,
	}
	if title := findTitle(doc); title != "" {
		out.Title = title
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}

	if pres := findAll(root, "pre"); len(pres) > 0 {
		texts := make([]string, len(pres))
		for i, pre := range pres {
			texts[i] = rawText(pre)
		}
		out.Text = strings.Join(texts, "\n")
		return out, nil
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					blocks = append(blocks, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	out.Delimiter = blockDelimiter(p.Delimiter)
	out.Text = strings.Join(blocks, out.Delimiter)
	return out, nil
}

// rawText concatenates all text below n without trimming.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(rawText(n))
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		return append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, tag)...)
	}
	return out
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
