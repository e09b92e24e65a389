package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hearing/internal/domain"
)

// ErrNoSpeakers is returned when no words were attributed to any speaker.
var ErrNoSpeakers = errors.New("no speakers detected")

// WordSplit selects how words in a turn are counted.
type WordSplit string

const (
	// SplitSpace splits on single spaces; consecutive spaces yield empty
	// words that still count.
	SplitSpace WordSplit = "space"
	// SplitFields splits on runs of whitespace.
	SplitFields WordSplit = "fields"
)

// Aggregator accumulates per-speaker word and question counts from
// completed turns.
type Aggregator struct {
	split WordSplit
	order []string
	stats map[string]*domain.SpeakerStats
}

// NewAggregator creates an empty aggregator. An unrecognized split mode
// falls back to SplitSpace.
func NewAggregator(split WordSplit) *Aggregator {
	if split != SplitFields {
		split = SplitSpace
	}
	return &Aggregator{
		split: split,
		stats: make(map[string]*domain.SpeakerStats),
	}
}

// Observe adds one completed turn to the running counts.
func (a *Aggregator) Observe(turn domain.ConversationTurn) {
	st, ok := a.stats[turn.Speaker]
	if !ok {
		st = &domain.SpeakerStats{}
		a.stats[turn.Speaker] = st
		a.order = append(a.order, turn.Speaker)
	}
	st.Questions += strings.Count(turn.Text, "?")
	st.Words += a.countWords(turn.Text)
}

func (a *Aggregator) countWords(text string) int {
	if a.split == SplitFields {
		return len(strings.Fields(text))
	}
	return len(strings.Split(text, " "))
}

// Speakers returns speaker names in order of their first completed turn.
func (a *Aggregator) Speakers() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Stats returns the counts for one speaker.
func (a *Aggregator) Stats(speaker string) (domain.SpeakerStats, bool) {
	st, ok := a.stats[speaker]
	if !ok {
		return domain.SpeakerStats{}, false
	}
	return *st, true
}

// TotalWords returns the sum of words over all speakers.
func (a *Aggregator) TotalWords() int {
	total := 0
	for _, st := range a.stats {
		total += st.Words
	}
	return total
}

// Report computes each speaker's share of the total words, rounded to
// precision decimals.
func (a *Aggregator) Report(precision int) (domain.Report, error) {
	total := a.TotalWords()
	if total == 0 {
		return domain.Report{}, fmt.Errorf("build report: %w", ErrNoSpeakers)
	}

	report := domain.Report{
		TotalWords: total,
		Speakers:   make([]domain.SpeakerShare, 0, len(a.order)),
	}
	for _, name := range a.Speakers() {
		st, _ := a.Stats(name)
		report.Speakers = append(report.Speakers, domain.SpeakerShare{
			Speaker:   name,
			WordRatio: round(float64(st.Words)/float64(total), precision),
			Questions: st.Questions,
			Words:     st.Words,
		})
	}
	return report, nil
}

// round rounds x to precision decimals from its exact binary value, so a
// ratio stored just above a tie rounds up.
func round(x float64, precision int) float64 {
	if precision < 0 {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', precision, 64), 64)
	if err != nil {
		return x
	}
	return r
}
