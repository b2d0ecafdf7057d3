package frame

import (
	"errors"
	"fmt"
	"strings"
)

// Raw exports name their time column inconsistently ("TIMESTAMP",
// "_time", "Fecha", "date/time"). Detection is by case-insensitive
// substring over a fixed priority list; the first pattern with a match
// wins, and within a pattern the leftmost column wins.
var timeColumnPatterns = []string{"time", "fecha", "timestamp", "date"}

// ErrNoTimeColumn reports that no column name matched any known time
// pattern.
var ErrNoTimeColumn = errors.New("frame: no time column detected")

// AmbiguousTimeColumnError reports that more than one distinct column
// matched. Chosen carries the priority winner so callers may proceed
// after surfacing the condition.
type AmbiguousTimeColumnError struct {
	Chosen     string
	Candidates []string
}

func (e *AmbiguousTimeColumnError) Error() string {
	return fmt.Sprintf("frame: ambiguous time column, candidates %v, chose %q", e.Candidates, e.Chosen)
}

// DetectTimeColumn finds the time column in a header. With exactly one
// candidate it returns (name, nil). With several it returns the
// priority winner together with an *AmbiguousTimeColumnError; callers
// log the ambiguity and continue. With none it returns ErrNoTimeColumn.
func DetectTimeColumn(columns []string) (string, error) {
	var candidates []string
	seen := make(map[string]bool)
	for _, pat := range timeColumnPatterns {
		for _, c := range columns {
			if seen[c] {
				continue
			}
			if strings.Contains(strings.ToLower(c), pat) {
				candidates = append(candidates, c)
				seen[c] = true
			}
		}
	}

	switch len(candidates) {
	case 0:
		return "", ErrNoTimeColumn
	case 1:
		return candidates[0], nil
	default:
		return candidates[0], &AmbiguousTimeColumnError{Chosen: candidates[0], Candidates: candidates}
	}
}
