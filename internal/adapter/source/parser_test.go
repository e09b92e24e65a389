package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestHTMLParser_Preformatted(t *testing.T) {
	input := `<html><head><title>Examining Facebook's Proposed Digital Currency</title></head>
<body><pre>
    Chairman Crapo. The hearing will come to order.
    Mr. Marcus. Thank you &amp; good morning.
</pre></body></html>`

	doc, err := (&HTMLParser{Delimiter: "    "}).Parse(strings.NewReader(input), "hearing.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Examining Facebook's Proposed Digital Currency" {
		t.Errorf("unexpected title %q", doc.Title)
	}

	got := doc.Paragraphs()
	want := []string{
		"Chairman Crapo. The hearing will come to order.",
		"Mr. Marcus. Thank you & good morning.",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestHTMLParser_Blocks(t *testing.T) {
	input := `<html><body>
<nav><p>Skip me</p></nav>
<h1>Hearing</h1>
<p>Chairman Crapo. The hearing will come to order.</p>
<script>var x = 1;</script>
<blockquote>Mr. Marcus. Thank you.</blockquote>
</body></html>`

	doc, err := (&HTMLParser{}).Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected title from filename, got %q", doc.Title)
	}
	got := doc.Paragraphs()
	if len(got) != 2 || got[0] != "Chairman Crapo. The hearing will come to order." || got[1] != "Mr. Marcus. Thank you." {
		t.Errorf("unexpected paragraphs %q", got)
	}
}

func TestTextParser(t *testing.T) {
	input := "    Senator John Smith. Thank you.\n    Senator Jane Doe. You're welcome?\n"
	doc, err := (&TextParser{Delimiter: "    "}).Parse(strings.NewReader(input), "dir/notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if doc.Text != input {
		t.Error("text must be kept verbatim")
	}
	if n := len(doc.Paragraphs()); n != 2 {
		t.Errorf("expected 2 paragraphs, got %d", n)
	}
}

func TestMarkdownParser(t *testing.T) {
	input := "# Digital Currency Hearing\n\n" +
		"**Chairman Crapo.** The hearing will\ncome to order.\n\n" +
		"- Mr. Marcus. Thank you.\n\n" +
		"> Senator Brown. Why `Libra`?\n"

	doc, err := (&MarkdownParser{Delimiter: "    "}).Parse(strings.NewReader(input), "hearing.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Digital Currency Hearing" {
		t.Errorf("unexpected title %q", doc.Title)
	}

	got := doc.Paragraphs()
	want := []string{
		"Chairman Crapo. The hearing will come to order.",
		"Mr. Marcus. Thank you.",
		"Senator Brown. Why Libra?",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMarkdownParser_DefaultDelimiter(t *testing.T) {
	doc, err := (&MarkdownParser{}).Parse(strings.NewReader("one\n\ntwo\n"), "x.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Delimiter != "\n\n" || len(doc.Paragraphs()) != 2 {
		t.Errorf("expected blank-line delimited paragraphs, got %q / %q", doc.Delimiter, doc.Paragraphs())
	}
}

func TestDOCXParser(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("Chairman Crapo. The hearing will come to order.")
	w.AddParagraph().AddText("Mr. Marcus. Thank you.")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	doc, err := (&DOCXParser{Delimiter: "    "}).Parse(&buf, "hearing.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "hearing" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	got := doc.Paragraphs()
	if len(got) != 2 || got[1] != "Mr. Marcus. Thank you." {
		t.Errorf("unexpected paragraphs %q", got)
	}
}

func TestPDFParser_InvalidInput(t *testing.T) {
	_, err := (&PDFParser{}).Parse(strings.NewReader("not a pdf"), "broken.pdf")
	if err == nil {
		t.Error("expected error for invalid pdf")
	}
}
