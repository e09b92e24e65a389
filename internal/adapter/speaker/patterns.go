package speaker

import (
	"fmt"

	"hearing/internal/domain"
)

// BuildPatterns returns, for each title in order, a single-name and a
// double-name introduction pattern. An empty title list yields no patterns.
func BuildPatterns(titles []string) []domain.SpeakerPattern {
	patterns := make([]domain.SpeakerPattern, 0, len(titles)*2)
	for _, title := range titles {
		for _, names := range []int{1, 2} {
			patterns = append(patterns, domain.SpeakerPattern{
				Name:        fmt.Sprintf("Title-%d", len(patterns)),
				Title:       title,
				Constraints: introduction(title, names),
			})
		}
	}
	return patterns
}

// introduction is [title at sentence start, names x PERSON, "."].
func introduction(title string, names int) []domain.TokenConstraint {
	cs := make([]domain.TokenConstraint, 0, names+2)
	cs = append(cs, domain.TokenConstraint{SentenceStart: true, Text: title})
	for range names {
		cs = append(cs, domain.TokenConstraint{EntityType: domain.EntityPerson})
	}
	return append(cs, domain.TokenConstraint{Text: "."})
}
