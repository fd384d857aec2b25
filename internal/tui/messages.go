package tui

import (
	"context"
	"time"

	"journal/internal/domain"
	"journal/internal/session"
	"journal/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionMsg carries a new snapshot from the session observer. The program
// owner forwards Observer.Changes into the program with Send.
type SessionMsg session.Session

type authDoneMsg struct {
	screen int
	err    error
}

type entriesLoadedMsg struct {
	screen    int
	gen       int
	entries   []domain.Entry
	fetchedAt time.Time
	err       error
}

type entryLoadedMsg struct {
	screen int
	gen    int
	entry  *domain.Entry
	err    error
}

type entrySavedMsg struct {
	screen int
	gen    int
	id     string
	err    error
}

type celebrationTickMsg struct {
	screen int
	at     time.Time
}

type signedOutMsg struct{ err error }

func (m Model) signInCmd(screen int, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.auth.SignIn(ctx, email, password)
		return authDoneMsg{screen: screen, err: err}
	}
}

func (m Model) registerCmd(screen int, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.auth.Register(ctx, email, password)
		return authDoneMsg{screen: screen, err: err}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return signedOutMsg{err: m.auth.SignOut(ctx)}
	}
}

func (m Model) loadEntriesCmd(screen, gen int, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		entries, err := m.journal.List(ctx, userID)
		return entriesLoadedMsg{screen: screen, gen: gen, entries: entries, fetchedAt: m.now(), err: err}
	}
}

func (m Model) loadEntryCmd(screen, gen int, userID, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		e, err := m.journal.Get(ctx, userID, id)
		return entryLoadedMsg{screen: screen, gen: gen, entry: e, err: err}
	}
}

func (m Model) saveEntryCmd(screen int, userID string, req view.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		id, err := m.journal.Save(ctx, userID, req.Ref, req.Fields)
		return entrySavedMsg{screen: screen, gen: req.Gen, id: id, err: err}
	}
}

func (m Model) celebrationCmd(screen int, d time.Duration) tea.Cmd {
	return m.tick(d, func(t time.Time) tea.Msg {
		return celebrationTickMsg{screen: screen, at: t}
	})
}
