package view

import (
	"time"

	"journal/internal/domain"
)

// List is the state of the entry list screen.
type List struct {
	entries []domain.Entry
	visible []domain.Entry
	stats   domain.Stats
	search  string
	loading bool
	loaded  bool
	err     error
	gen     int
}

// NewList returns an empty list that has not been fetched yet.
func NewList() *List {
	return &List{}
}

// BeginLoad marks a fetch in flight and returns its generation.
func (l *List) BeginLoad() int {
	l.gen++
	l.loading = true
	return l.gen
}

// Loaded replaces the entries and derives stats as of fetchedAt.
func (l *List) Loaded(gen int, entries []domain.Entry, fetchedAt time.Time) {
	if gen != l.gen {
		return
	}
	l.entries = entries
	l.stats = domain.ComputeStats(entries, fetchedAt)
	l.loading = false
	l.loaded = true
	l.err = nil
	l.refilter()
}

// LoadFailed keeps whatever was loaded before. It reports false when gen
// is stale and the failure was ignored.
func (l *List) LoadFailed(gen int, err error) bool {
	if gen != l.gen {
		return false
	}
	l.loading = false
	l.err = err
	return true
}

// SetSearch filters the last fetched entries without refetching.
func (l *List) SetSearch(term string) {
	l.search = term
	l.refilter()
}

func (l *List) refilter() {
	l.visible = domain.FilterEntries(l.entries, l.search)
}

func (l *List) Entries() []domain.Entry { return l.entries }
func (l *List) Visible() []domain.Entry { return l.visible }
func (l *List) Stats() domain.Stats     { return l.stats }
func (l *List) Search() string          { return l.search }
func (l *List) Loading() bool           { return l.loading }
func (l *List) HasLoaded() bool         { return l.loaded }
func (l *List) Err() error              { return l.err }
