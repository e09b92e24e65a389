package speaker

import "hearing/internal/domain"

// Matcher finds speaker introductions in a paragraph's tokens.
//
// Patterns are tried in registration order and the first pattern that
// matches anywhere wins, at its earliest position. A later pattern matching
// earlier in the paragraph does not take precedence.
type Matcher struct {
	patterns []domain.SpeakerPattern
}

// NewMatcher creates a matcher over an ordered pattern list.
func NewMatcher(patterns []domain.SpeakerPattern) *Matcher {
	ps := make([]domain.SpeakerPattern, len(patterns))
	copy(ps, patterns)
	return &Matcher{patterns: ps}
}

// Patterns returns the registered patterns in order.
func (m *Matcher) Patterns() []domain.SpeakerPattern {
	return m.patterns
}

// Match splits a paragraph into an optional speaker and the remaining
// spoken text. The speaker is the text of the matched span without its
// trailing period; the remainder is everything after the span.
func (m *Matcher) Match(tokens []domain.Token) (domain.Speaker, string) {
	for _, p := range m.patterns {
		start, end, ok := find(p, tokens)
		if !ok {
			continue
		}
		return domain.Known(domain.SpanText(tokens[start : end-1])), domain.SpanText(tokens[end:])
	}
	return domain.Unknown, paragraphText(tokens)
}

// find returns the earliest span [start, end) where p matches.
func find(p domain.SpeakerPattern, tokens []domain.Token) (int, int, bool) {
	n := len(p.Constraints)
	if n == 0 {
		return 0, 0, false
	}
	for start := 0; start+n <= len(tokens); start++ {
		if matchAt(p.Constraints, tokens[start:start+n]) {
			return start, start + n, true
		}
	}
	return 0, 0, false
}

func matchAt(cs []domain.TokenConstraint, window []domain.Token) bool {
	for i, c := range cs {
		if !c.Matches(window[i]) {
			return false
		}
	}
	return true
}

// paragraphText renders every token, including trailing whitespace of the last one.
func paragraphText(tokens []domain.Token) string {
	text := domain.SpanText(tokens)
	if len(tokens) > 0 {
		text += tokens[len(tokens)-1].Whitespace
	}
	return text
}
