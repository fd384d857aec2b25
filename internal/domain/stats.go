package domain

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const week = 7 * 24 * time.Hour

// Stats summarises a loaded entry set.
type Stats struct {
	TotalEntries     int `json:"totalEntries"`
	ThisWeek         int `json:"thisWeek"`
	AvgWordsPerEntry int `json:"avgWordsPerEntry"`
}

// ComputeStats derives Stats from entries as seen at now. ThisWeek counts
// entries created strictly after now minus seven days.
func ComputeStats(entries []Entry, now time.Time) Stats {
	s := Stats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return s
	}
	cutoff := now.Add(-week)
	words := 0
	for _, e := range entries {
		if e.CreatedAt.After(cutoff) {
			s.ThisWeek++
		}
		words += WordCount(e.Content)
	}
	s.AvgWordsPerEntry = int(math.Round(float64(words) / float64(len(entries))))
	return s
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// FilterEntries returns the entries whose title or content contains term,
// compared under Unicode case folding. An empty term keeps every entry.
func FilterEntries(entries []Entry, term string) []Entry {
	if term == "" {
		return entries
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Title), needle) || strings.Contains(fold.String(e.Content), needle) {
			out = append(out, e)
		}
	}
	return out
}
