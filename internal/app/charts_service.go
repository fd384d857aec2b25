package app

import (
	"context"
	"errors"
	"time"

	"journal/internal/domain"
)

// maxChartDays bounds GetDaily to roughly one year of points.
const maxChartDays = 366

// ErrInvalidDays is returned by GetDaily for a non-positive day count.
var ErrInvalidDays = errors.New("days must be positive")

// EntryLister lists one user's entries.
type EntryLister interface {
	List(ctx context.Context, userID string) ([]domain.Entry, error)
}

// ChartsService encapsulates the per-day writing activity use case.
type ChartsService struct {
	entries EntryLister
	now     func() time.Time
	loc     *time.Location
}

// NewChartsService creates a ChartsService reading through entries.
func NewChartsService(entries EntryLister) *ChartsService {
	return &ChartsService{entries: entries, now: time.Now, loc: time.Local}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day     string       `json:"day"`
	Entries int          `json:"entries"`
	Words   int          `json:"words"`
	Mood    *domain.Mood `json:"mood"`
}

// GetDaily returns one point per local day for the last days days, oldest
// first. Mood is the most frequent mood of the day, ties going to the one
// listed first in domain.Moods, and nil on days without entries.
func (s *ChartsService) GetDaily(ctx context.Context, userID string, days int) ([]DayPoint, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	entries, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		entries int
		words   int
		moods   map[domain.Mood]int
	}
	byDay := make(map[string]*bucket)
	for _, e := range entries {
		day := e.CreatedAt.In(s.loc).Format(time.DateOnly)
		b, ok := byDay[day]
		if !ok {
			b = &bucket{moods: make(map[domain.Mood]int)}
			byDay[day] = b
		}
		b.entries++
		b.words += domain.WordCount(e.Content)
		b.moods[e.Mood]++
	}

	today := s.now().In(s.loc)
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		p := DayPoint{Day: day}
		if b, ok := byDay[day]; ok {
			p.Entries, p.Words = b.entries, b.words
			p.Mood = dominantMood(b.moods)
		}
		points = append(points, p)
	}
	return points, nil
}

func dominantMood(counts map[domain.Mood]int) *domain.Mood {
	var best *domain.Mood
	top := 0
	for _, m := range domain.Moods {
		if n := counts[m]; n > top {
			m := m
			best, top = &m, n
		}
	}
	return best
}
