package analyzer

import (
	"context"
	"testing"

	"hearing/internal/domain"
)

func tokenize(t *testing.T, tok *Tokenizer, text string) []domain.Token {
	t.Helper()
	tokens, err := tok.Tokenize(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	return tokens
}

func texts(tokens []domain.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenizer_Introduction(t *testing.T) {
	tok := NewTokenizer([]string{"Senator"})
	tokens := tokenize(t, tok, "Senator John Smith. Thank you.")

	want := []domain.Token{
		{Text: "Senator", Whitespace: " ", SentenceStart: true},
		{Text: "John", Whitespace: " ", EntityType: domain.EntityPerson},
		{Text: "Smith", EntityType: domain.EntityPerson},
		{Text: ".", Whitespace: " "},
		{Text: "Thank", Whitespace: " ", SentenceStart: true},
		{Text: "you"},
		{Text: "."},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), texts(tokens))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestTokenizer_RoundTrip(t *testing.T) {
	tok := NewTokenizer(nil)
	text := "Mr. Marcus. Thank you, Chairman Crapo (and the Committee).\nI'm \"glad\" to be here!"
	if got := domain.SpanText(tokenize(t, tok, text)); got != text {
		t.Errorf("expected round trip\n got  %q\n want %q", got, text)
	}
}

func TestTokenizer_Abbreviations(t *testing.T) {
	tok := NewTokenizer([]string{"Amb."})
	tokens := tokenize(t, tok, "Mr. David A. Marcus met Amb. Rice in the U.S. today.")

	got := texts(tokens)
	want := []string{"Mr.", "David", "A.", "Marcus", "met", "Amb.", "Rice", "in", "the", "U.S.", "today", "."}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, tk := range tokens[1:] {
		if tk.SentenceStart {
			t.Errorf("abbreviation must not end a sentence, %q marked as start", tk.Text)
		}
	}
	for _, i := range []int{1, 2, 3, 6} {
		if tokens[i].EntityType != domain.EntityPerson {
			t.Errorf("expected %q to be tagged %s", tokens[i].Text, domain.EntityPerson)
		}
	}
}

func TestTokenizer_SentenceStarts(t *testing.T) {
	tok := NewTokenizer(nil)
	tokens := tokenize(t, tok, "Yes. Really? Indeed! fine")

	var starts []string
	for _, tk := range tokens {
		if tk.SentenceStart {
			starts = append(starts, tk.Text)
		}
	}
	want := []string{"Yes", "Really", "Indeed", "fine"}
	if len(starts) != len(want) {
		t.Fatalf("expected sentence starts %v, got %v", want, starts)
	}
	for i := range want {
		if starts[i] != want[i] {
			t.Errorf("start[%d] = %q, want %q", i, starts[i], want[i])
		}
	}
}

func TestTokenizer_PersonTagging(t *testing.T) {
	tok := NewTokenizer(nil)
	tests := []struct {
		text   string
		person []string
	}{
		{"Chairman Crapo. Thank you.", []string{"Crapo"}},
		{"Mr. Chairman, I yield.", nil},
		{"Thank you, Senator Brown.", []string{"Brown"}},
		{"The Senator said nothing.", nil},
		{"Senator Jean-Luc O'Neil.", []string{"Jean-Luc", "O'Neil"}},
		{"Senator smith.", nil},
	}

	for _, tt := range tests {
		var got []string
		for _, tk := range tokenize(t, tok, tt.text) {
			if tk.EntityType == domain.EntityPerson {
				got = append(got, tk.Text)
			}
		}
		if len(got) != len(tt.person) {
			t.Errorf("%q: expected persons %v, got %v", tt.text, tt.person, got)
			continue
		}
		for i := range got {
			if got[i] != tt.person[i] {
				t.Errorf("%q: person[%d] = %q, want %q", tt.text, i, got[i], tt.person[i])
			}
		}
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer(nil)
	if tokens := tokenize(t, tok, ""); len(tokens) != 0 {
		t.Errorf("expected 0 tokens for empty input, got %d", len(tokens))
	}
	if tokens := tokenize(t, tok, " \n\t "); len(tokens) != 0 {
		t.Errorf("expected 0 tokens for blank input, got %d", len(tokens))
	}
}

func TestTokenizer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTokenizer(nil).Tokenize(ctx, "text"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSplitPunct(t *testing.T) {
	tok := NewTokenizer(nil)
	tests := []struct {
		input    string
		expected int
	}{
		{"hello", 1},
		{"hello.", 2},
		{"Mr.", 1},
		{"Mr.,", 2},
		{"(and", 2},
		{"Committee).", 3},
		{"\"glad\"", 3},
		{"...", 3},
		{"you're", 1},
		{"A.", 1},
	}

	for _, tt := range tests {
		parts := tok.splitPunct(tt.input)
		if len(parts) != tt.expected {
			t.Errorf("splitPunct(%q) = %d parts, want %d: %v", tt.input, len(parts), tt.expected, parts)
		}
	}
}
