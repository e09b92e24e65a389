package domain

import "strings"

// EntityPerson is the entity-type tag carried by tokens that are part of a person name.
const EntityPerson = "PERSON"

// Token is the smallest unit the speaker matcher inspects.
type Token struct {
	Text          string `json:"text"`
	Whitespace    string `json:"whitespace,omitempty"` // whitespace trailing the token in the source
	EntityType    string `json:"ent_type,omitempty"`
	SentenceStart bool   `json:"is_sent_start"`
}

// SpanText renders tokens back to source text. Whitespace after the last
// token is not included.
func SpanText(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range tokens {
		b.WriteString(t.Text)
		if i < len(tokens)-1 {
			b.WriteString(t.Whitespace)
		}
	}
	return b.String()
}

// TokenConstraint restricts a single token. Zero-valued fields are unspecified.
type TokenConstraint struct {
	SentenceStart bool   `json:"is_sent_start,omitempty" yaml:"is_sent_start,omitempty"`
	Text          string `json:"text,omitempty" yaml:"text,omitempty"`
	EntityType    string `json:"ent_type,omitempty" yaml:"ent_type,omitempty"`
}

// Matches reports whether every specified field of c holds for t.
func (c TokenConstraint) Matches(t Token) bool {
	if c.SentenceStart && !t.SentenceStart {
		return false
	}
	if c.Text != "" && c.Text != t.Text {
		return false
	}
	if c.EntityType != "" && c.EntityType != t.EntityType {
		return false
	}
	return true
}

// SpeakerPattern is an ordered sequence of token constraints identifying a
// speaker introduction.
type SpeakerPattern struct {
	Name        string            `json:"name" yaml:"name"`
	Title       string            `json:"title" yaml:"title"`
	Constraints []TokenConstraint `json:"constraints" yaml:"constraints"`
}

// Speaker is either a known, named speaker or Unknown.
type Speaker struct {
	name  string
	known bool
}

// Unknown is the speaker of text that has not been attributed yet.
var Unknown = Speaker{}

// Known returns a named speaker.
func Known(name string) Speaker {
	return Speaker{name: name, known: true}
}

// Name returns the speaker name and whether the speaker is known.
func (s Speaker) Name() (string, bool) {
	return s.name, s.known
}

func (s Speaker) IsKnown() bool {
	return s.known
}

func (s Speaker) String() string {
	if !s.known {
		return "<unknown>"
	}
	return s.name
}

// ConversationTurn is one uninterrupted stretch of paragraphs attributed to
// the same speaker.
type ConversationTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`

	// Raw is the accumulated text before normalization.
	Raw string `json:"-"`
}

// SpeakerStats holds running per-speaker counters.
type SpeakerStats struct {
	Words     int `json:"words"`
	Questions int `json:"questions"`
}

// SpeakerShare is one row of the participation report.
type SpeakerShare struct {
	Speaker   string  `json:"speaker"`
	WordRatio float64 `json:"word_ratio"`
	Questions int     `json:"questions"`
	Words     int     `json:"words"`
}

// Report is the aggregate participation table. Rows are ordered by each
// speaker's first completed turn.
type Report struct {
	TotalWords int            `json:"total_words"`
	Speakers   []SpeakerShare `json:"speakers"`
}

// Analysis is the full result of processing one transcript.
type Analysis struct {
	Source     string             `json:"source,omitempty"`
	Title      string             `json:"title,omitempty"`
	Paragraphs int                `json:"paragraphs"`
	Transcript []ConversationTurn `json:"transcript,omitempty"`
	Report     Report             `json:"report"`
}
