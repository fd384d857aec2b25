// Package view holds the screen state of the entry list and the entry
// editor. Transitions are pure; the caller performs the I/O they ask for
// and feeds the results back in.
package view

import (
	"time"

	"journal/internal/domain"
)

// CelebrationWindow is how long the editor celebrates a save before
// returning to the list.
const CelebrationWindow = 3 * time.Second

// EditorState is a state of the entry editor.
type EditorState int

const (
	Loading EditorState = iota
	Editing
	EditingWithError
	Saving
	Celebrating
	Redirecting
)

func (s EditorState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Editing:
		return "editing"
	case EditingWithError:
		return "editing-with-error"
	case Saving:
		return "saving"
	case Celebrating:
		return "celebrating"
	case Redirecting:
		return "redirecting"
	}
	return "unknown"
}

// Editor is the state of one editor screen. Every asynchronous request it
// issues is tagged with a generation; results carrying an older generation
// are ignored.
type Editor struct {
	ref    domain.EntryRef
	state  EditorState
	fields domain.EntryFields
	err    error
	gen    int
	until  time.Time
}

// SaveRequest is what the caller must persist after BeginSave.
type SaveRequest struct {
	Gen    int
	Ref    domain.EntryRef
	Fields domain.EntryFields
}

// OpenEditor opens ref. A draft starts in Editing with empty fields and the
// neutral mood; a saved entry starts Loading and needs Loaded or LoadFailed
// for generation Generation().
func OpenEditor(ref domain.EntryRef) *Editor {
	e := &Editor{ref: ref, gen: 1, fields: domain.EntryFields{Mood: domain.MoodNeutral}}
	if ref.IsDraft() {
		e.state = Editing
	} else {
		e.state = Loading
	}
	return e
}

func (e *Editor) State() EditorState         { return e.state }
func (e *Editor) Ref() domain.EntryRef       { return e.ref }
func (e *Editor) Fields() domain.EntryFields { return e.fields }
func (e *Editor) Generation() int            { return e.gen }

// Err is the save failure shown inline in EditingWithError.
func (e *Editor) Err() error { return e.err }

// CelebrationEnds is when the Celebrating state is over.
func (e *Editor) CelebrationEnds() time.Time { return e.until }

func (e *Editor) editable() bool {
	return e.state == Editing || e.state == EditingWithError
}

// SetTitle changes the uncommitted title.
func (e *Editor) SetTitle(s string) {
	if e.editable() {
		e.fields.Title = s
	}
}

// SetContent changes the uncommitted content.
func (e *Editor) SetContent(s string) {
	if e.editable() {
		e.fields.Content = s
	}
}

// SetMood changes the uncommitted mood.
func (e *Editor) SetMood(m domain.Mood) {
	if e.editable() {
		e.fields.Mood = m
	}
}

// CanSave reports whether Save is enabled: an editable state with
// non-blank title and content.
func (e *Editor) CanSave() bool {
	return e.editable() && e.fields.Complete()
}

// Loaded fills the fields from the fetched entry.
func (e *Editor) Loaded(gen int, entry *domain.Entry) {
	if gen != e.gen || e.state != Loading || entry == nil {
		return
	}
	e.fields = domain.EntryFields{Title: entry.Title, Content: entry.Content, Mood: entry.Mood}
	if e.fields.Mood == "" {
		e.fields.Mood = domain.MoodNeutral
	}
	e.state = Editing
}

// LoadFailed leaves the editor; a missing or unreadable entry always
// returns to the list.
func (e *Editor) LoadFailed(gen int, _ error) {
	if gen != e.gen || e.state != Loading {
		return
	}
	e.state = Redirecting
}

// BeginSave moves to Saving and returns the write to perform. It returns
// false, changing nothing, while Save is disabled.
func (e *Editor) BeginSave() (SaveRequest, bool) {
	if !e.CanSave() {
		return SaveRequest{}, false
	}
	e.gen++
	e.state = Saving
	return SaveRequest{Gen: e.gen, Ref: e.ref, Fields: e.fields}, true
}

// Saved records a successful write. The editor now refers to the saved id
// so a later save updates instead of creating again, and it celebrates
// until now plus CelebrationWindow.
func (e *Editor) Saved(gen int, id string, now time.Time) {
	if gen != e.gen || e.state != Saving {
		return
	}
	e.ref = domain.Saved(id)
	e.err = nil
	e.state = Celebrating
	e.until = now.Add(CelebrationWindow)
}

// SaveFailed returns to editing with the error kept for display.
func (e *Editor) SaveFailed(gen int, err error) {
	if gen != e.gen || e.state != Saving {
		return
	}
	e.err = err
	e.state = EditingWithError
}

// Tick ends the celebration once its window has passed.
func (e *Editor) Tick(now time.Time) {
	if e.state == Celebrating && !now.Before(e.until) {
		e.state = Redirecting
	}
}

// Cancel leaves the editor from any state except Saving.
func (e *Editor) Cancel() {
	if e.state != Saving {
		e.state = Redirecting
	}
}
