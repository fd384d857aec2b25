package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mood is the feeling attached to an entry.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodExcited Mood = "excited"
	MoodTired   Mood = "tired"
)

// Moods lists every mood in picker order.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodSad, MoodExcited, MoodTired}

var moodLabels = map[Mood]string{
	MoodHappy:   "😊 Happy",
	MoodNeutral: "😐 Neutral",
	MoodSad:     "😔 Sad",
	MoodExcited: "🎉 Excited",
	MoodTired:   "😴 Tired",
}

// Label returns the display label of m.
func (m Mood) Label() string {
	if l, ok := moodLabels[m]; ok {
		return l
	}
	return string(m)
}

// ErrUnknownMood is returned for a mood outside Moods.
var ErrUnknownMood = errors.New("unknown mood")

// ParseMood validates s. An empty string yields MoodNeutral.
func ParseMood(s string) (Mood, error) {
	if s == "" {
		return MoodNeutral, nil
	}
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := moodLabels[m]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownMood, s)
	}
	return m, nil
}

// Entry is a single journal document owned by one user.
type Entry struct {
	ID        string    `json:"id" firestore:"-"`
	Title     string    `json:"title" firestore:"title"`
	Content   string    `json:"content" firestore:"content"`
	Mood      Mood      `json:"mood" firestore:"mood"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// EntryFields are the user-editable parts of an entry.
type EntryFields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    Mood   `json:"mood"`
}

// ErrMissingFields is returned when title or content is blank.
var ErrMissingFields = errors.New("title and content are required")

// Complete reports whether both title and content hold non-whitespace text.
func (f EntryFields) Complete() bool {
	return strings.TrimSpace(f.Title) != "" && strings.TrimSpace(f.Content) != ""
}

// Validate performs the presence checks and normalises the mood.
func (f EntryFields) Validate() (EntryFields, error) {
	if !f.Complete() {
		return f, ErrMissingFields
	}
	m, err := ParseMood(string(f.Mood))
	if err != nil {
		return f, err
	}
	f.Mood = m
	return f, nil
}

// draftRef is the edge spelling of a draft in URLs and CLI arguments.
const draftRef = "new"

// EntryRef identifies the target of a save: a draft that has never been
// persisted, or a saved entry with a server-assigned id.
type EntryRef struct {
	id string
}

// Draft returns a reference to an entry that does not exist yet.
func Draft() EntryRef { return EntryRef{} }

// Saved returns a reference to the persisted entry id.
func Saved(id string) EntryRef { return EntryRef{id: id} }

// ParseEntryRef parses the edge representation: "new" is a draft, anything
// else non-empty is a saved id.
func ParseEntryRef(s string) (EntryRef, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return EntryRef{}, errors.New("empty entry reference")
	case draftRef:
		return Draft(), nil
	}
	return Saved(s), nil
}

// IsDraft reports whether r refers to an unsaved entry.
func (r EntryRef) IsDraft() bool { return r.id == "" }

// ID returns the saved id and true, or "" and false for a draft.
func (r EntryRef) ID() (string, bool) { return r.id, r.id != "" }

func (r EntryRef) String() string {
	if r.IsDraft() {
		return draftRef
	}
	return r.id
}

// EntryRepository is the port for per-user entry persistence. Every method
// is scoped to users/{userID}/entries.
type EntryRepository interface {
	// ListEntries returns the user's entries ordered by CreatedAt descending.
	ListEntries(ctx context.Context, userID string) ([]Entry, error)
	// GetEntry returns ErrNotFound when no entry has the id.
	GetEntry(ctx context.Context, userID, id string) (*Entry, error)
	// CreateEntry stores a new entry and returns its generated id.
	CreateEntry(ctx context.Context, userID string, f EntryFields, now time.Time) (string, error)
	// UpdateEntry overwrites the fields of an existing entry, keeping
	// CreatedAt. It returns ErrNotFound when the entry does not exist.
	UpdateEntry(ctx context.Context, userID, id string, f EntryFields, now time.Time) error
}

// Journal is the entry workflow seen by the views: list, get and save
// within one user's namespace.
type Journal interface {
	List(ctx context.Context, userID string) ([]Entry, error)
	Get(ctx context.Context, userID, id string) (*Entry, error)
	Save(ctx context.Context, userID string, ref EntryRef, f EntryFields) (string, error)
}
