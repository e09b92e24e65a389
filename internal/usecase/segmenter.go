package usecase

import (
	"strings"

	"hearing/internal/adapter/speaker"
	"hearing/internal/domain"
	"hearing/internal/port"
)

// Segmenter groups consecutive paragraphs into conversation turns.
//
// A turn ends only when a paragraph introduces a different known speaker.
// Paragraphs without an introduction extend the open turn, and text seen
// before the first introduction is folded into the first speaker's turn.
// A Segmenter handles a single document and is not safe for concurrent use.
type Segmenter struct {
	matcher       *speaker.Matcher
	sink          port.TurnSink
	flushTrailing bool

	current domain.Speaker
	text    strings.Builder
	turns   []domain.ConversationTurn
	closed  bool
}

// NewSegmenter creates a segmenter. Each completed turn is passed to sink,
// which may be nil. When flushTrailing is set, Close also completes the
// open turn if its speaker is known.
func NewSegmenter(matcher *speaker.Matcher, sink port.TurnSink, flushTrailing bool) *Segmenter {
	return &Segmenter{
		matcher:       matcher,
		sink:          sink,
		flushTrailing: flushTrailing,
		current:       domain.Unknown,
	}
}

// Feed processes the next paragraph.
func (s *Segmenter) Feed(tokens []domain.Token) {
	if s.closed {
		return
	}
	spk, remainder := s.matcher.Match(tokens)

	switch {
	case !s.current.IsKnown():
		s.current = spk
	case !spk.IsKnown() || spk == s.current:
		// same turn
	default:
		s.flush()
		s.current = spk
	}
	s.text.WriteString(remainder)
}

// Close ends the input and returns every completed turn.
func (s *Segmenter) Close() []domain.ConversationTurn {
	if !s.closed {
		s.closed = true
		if s.flushTrailing && s.current.IsKnown() {
			s.flush()
			s.current = domain.Unknown
		}
	}
	return s.turns
}

// Turns returns the turns completed so far.
func (s *Segmenter) Turns() []domain.ConversationTurn {
	return s.turns
}

// Pending returns the speaker and raw text of the open turn.
func (s *Segmenter) Pending() (domain.Speaker, string) {
	return s.current, s.text.String()
}

func (s *Segmenter) flush() {
	name, _ := s.current.Name()
	raw := s.text.String()
	turn := domain.ConversationTurn{
		Speaker: name,
		Text:    normalize(raw),
		Raw:     raw,
	}
	s.turns = append(s.turns, turn)
	if s.sink != nil {
		s.sink.Observe(turn)
	}
	s.text.Reset()
}

// normalize trims surrounding whitespace and removes every line break.
func normalize(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", "")
}
