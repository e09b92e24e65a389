package analyzer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"hearing/internal/domain"
)

const (
	leadingPunct  = "([{\"'“‘"
	trailingPunct = ".,;:!?)]}\"'”’"
)

// Tokenizer is a rule-based tokenizer for hearing transcripts. It splits
// punctuation off words, keeps abbreviations such as "Mr." intact, marks
// sentence starts and tags person names that follow a title.
type Tokenizer struct {
	titles        map[string]struct{}
	abbreviations map[string]struct{}
	nonNames      map[string]struct{}
}

// NewTokenizer creates a Tokenizer that recognizes the given titles in
// addition to the built-in honorifics.
func NewTokenizer(titles []string) *Tokenizer {
	t := &Tokenizer{
		titles:        toSet(defaultHonorifics()),
		abbreviations: toSet(defaultAbbreviations()),
		nonNames:      toSet(defaultNonNames()),
	}
	for _, title := range titles {
		t.titles[title] = struct{}{}
		if strings.HasSuffix(title, ".") {
			t.abbreviations[title] = struct{}{}
		}
	}
	return t
}

func (t *Tokenizer) Name() string { return "heuristic" }

// Tokenize splits text into annotated tokens. Leading whitespace is dropped.
func (t *Tokenizer) Tokenize(ctx context.Context, text string) ([]domain.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tokens []domain.Token
	for _, w := range splitWhitespace(text) {
		parts := t.splitPunct(w.text)
		for i, p := range parts {
			tok := domain.Token{Text: p}
			if i == len(parts)-1 {
				tok.Whitespace = w.space
			}
			tokens = append(tokens, tok)
		}
	}

	markSentences(tokens)
	t.tagPersons(tokens)
	return tokens, nil
}

type word struct {
	text  string
	space string
}

// splitWhitespace splits text into words, each carrying the whitespace run
// that follows it.
func splitWhitespace(text string) []word {
	var words []word
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if len(words) > 0 {
				words[len(words)-1].space += string(r)
			}
			i += size
			continue
		}
		j := i
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if unicode.IsSpace(r) {
				break
			}
			j += size
		}
		words = append(words, word{text: text[i:j]})
		i = j
	}
	return words
}

// splitPunct separates leading and trailing punctuation from a word.
func (t *Tokenizer) splitPunct(w string) []string {
	var lead []string
	for w != "" {
		r, size := utf8.DecodeRuneInString(w)
		if !strings.ContainsRune(leadingPunct, r) {
			break
		}
		lead = append(lead, w[:size])
		w = w[size:]
	}

	var trail []string
	for w != "" && !t.isAbbreviation(w) {
		r, size := utf8.DecodeLastRuneInString(w)
		if !strings.ContainsRune(trailingPunct, r) {
			break
		}
		trail = append([]string{w[len(w)-size:]}, trail...)
		w = w[:len(w)-size]
	}

	parts := lead
	if w != "" {
		parts = append(parts, w)
	}
	return append(parts, trail...)
}

func (t *Tokenizer) isAbbreviation(w string) bool {
	if _, ok := t.abbreviations[w]; ok {
		return true
	}
	return isInitial(w)
}

// isInitial matches a single capital letter followed by a period, e.g. "A.".
func isInitial(w string) bool {
	r, size := utf8.DecodeRuneInString(w)
	return len(w) == size+1 && w[size] == '.' && unicode.IsUpper(r)
}

// markSentences flags the first token and every token after a sentence-final mark.
func markSentences(tokens []domain.Token) {
	for i := range tokens {
		if i == 0 {
			tokens[i].SentenceStart = true
			continue
		}
		switch tokens[i-1].Text {
		case ".", "!", "?":
			tokens[i].SentenceStart = true
		}
	}
}

// tagPersons marks capitalized words that follow a title, an initial or
// another person token.
func (t *Tokenizer) tagPersons(tokens []domain.Token) {
	for i := 1; i < len(tokens); i++ {
		prev := tokens[i-1]
		_, afterTitle := t.titles[prev.Text]
		if !afterTitle && prev.EntityType != domain.EntityPerson {
			continue
		}
		if isInitial(tokens[i].Text) || t.isNameWord(tokens[i].Text) {
			tokens[i].EntityType = domain.EntityPerson
		}
	}
}

func (t *Tokenizer) isNameWord(w string) bool {
	if _, ok := t.titles[w]; ok {
		return false
	}
	if _, ok := t.nonNames[w]; ok {
		return false
	}
	first, _ := utf8.DecodeRuneInString(w)
	if !unicode.IsUpper(first) {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) && r != '\'' && r != '’' && r != '-' {
			return false
		}
	}
	return true
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// defaultHonorifics returns words that introduce a person name.
func defaultHonorifics() []string {
	return []string{
		"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Sen.", "Rep.", "Gov.", "Hon.", "Gen.",
		"Senator", "Representative", "Congressman", "Congresswoman", "Chairman",
		"Chairwoman", "Chair", "Secretary", "Governor", "Judge", "Justice", "Director",
		"Commissioner", "Ambassador", "Admiral", "General", "Professor", "Doctor",
	}
}

// defaultAbbreviations returns period-terminated words that are not sentence ends.
func defaultAbbreviations() []string {
	return []string{
		"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Sen.", "Rep.", "Gov.", "Hon.", "Gen.",
		"Jr.", "Sr.", "St.", "Mt.", "Lt.", "Col.", "Capt.", "Sgt.",
		"U.S.", "U.K.", "U.N.", "Inc.", "Corp.", "Co.", "Ltd.", "No.", "vs.", "etc.",
		"e.g.", "i.e.", "a.m.", "p.m.", "Jan.", "Feb.", "Aug.", "Sept.", "Oct.", "Nov.", "Dec.",
	}
}

// defaultNonNames returns capitalized words that commonly follow a title
// without being part of a name ("Mr. Chairman, I ...").
func defaultNonNames() []string {
	return []string{
		"I", "The", "A", "An", "And", "But", "So", "Or", "Of", "In", "On", "At", "To",
		"Thank", "Thanks", "Yes", "No", "Well", "Okay", "OK", "Good", "Let", "We",
		"You", "He", "She", "It", "They", "This", "That", "What", "Why", "How",
		"When", "Where", "Who", "Facebook", "Congress", "Committee", "Members",
		"Ranking", "Member",
	}
}
