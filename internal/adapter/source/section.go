package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMarkerNotFound is returned when the start marker does not occur in the text.
var ErrMarkerNotFound = errors.New("section marker not found")

// Cut returns the text after the first occurrence of start and before the
// first occurrence of end that follows it. An empty start keeps the text
// from the beginning; an empty or missing end keeps it to the end.
func Cut(text, start, end string) (string, error) {
	if start != "" {
		i := strings.Index(text, start)
		if i < 0 {
			return "", fmt.Errorf("%w: %q", ErrMarkerNotFound, start)
		}
		text = text[i+len(start):]
	}
	if end != "" {
		if j := strings.Index(text, end); j >= 0 {
			text = text[:j]
		}
	}
	return text, nil
}
