package tui

import (
	"fmt"
	"strings"

	"journal/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) enterList() (tea.Model, tea.Cmd) {
	m.editor = nil
	m.listStatus = ""
	gen := m.list.BeginLoad()
	return m, m.loadEntriesCmd(m.screen, gen, m.sess.UserID)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.list.SetSearch(m.search.Value())
		m.cursor = 0
		return m, cmd
	}

	visible := m.list.Visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(visible) {
			return m.navigate(routeEditor, domain.Saved(visible[m.cursor].ID))
		}
	case key.Matches(msg, m.keys.New):
		return m.navigate(routeEditor, domain.Draft())
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m.enterList()
	case key.Matches(msg, m.keys.SignOut):
		return m, m.signOutCmd()
	}
	return m, nil
}

func (m Model) entriesLoaded(msg entriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen || m.route != routeList {
		return m, nil
	}
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("load entries")
		if m.list.LoadFailed(msg.gen, msg.err) {
			m.listStatus = "Could not refresh entries."
		}
		return m, nil
	}
	m.list.Loaded(msg.gen, msg.entries, msg.fetchedAt)
	m.listStatus = ""
	if n := len(m.list.Visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m, nil
}

func (m Model) viewList() string {
	stats := m.list.Stats()
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox.Render(hotStyle.Render(fmt.Sprint(stats.TotalEntries))+"\n"+mutedStyle.Render("Total entries")),
		statBox.Render(hotStyle.Render(fmt.Sprint(stats.ThisWeek))+"\n"+mutedStyle.Render("This week")),
		statBox.Render(hotStyle.Render(fmt.Sprint(stats.AvgWordsPerEntry))+"\n"+mutedStyle.Render("Avg. words")),
	)

	rows := []string{titleStyle.Render("My Journal"), mutedStyle.Render(m.sess.Email), "", header, ""}
	if m.searching || m.list.Search() != "" {
		rows = append(rows, m.search.View(), "")
	}

	visible := m.list.Visible()
	switch {
	case m.list.Loading() && !m.list.HasLoaded():
		rows = append(rows, mutedStyle.Render("Loading entries..."))
	case len(m.list.Entries()) == 0:
		rows = append(rows, mutedStyle.Render("No entries yet. Press n to write your first one."))
	case len(visible) == 0:
		rows = append(rows, mutedStyle.Render("No entries match your search."))
	}
	for i, e := range visible {
		rows = append(rows, entryRow(e, i == m.cursor))
	}

	if m.listStatus != "" {
		rows = append(rows, "", errorStyle.Render(m.listStatus))
	}
	rows = append(rows, "", m.help.View(m.keys.forRoute(routeList)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func entryRow(e domain.Entry, selected bool) string {
	line := fmt.Sprintf("%s  %s  %s",
		e.CreatedAt.Local().Format("Jan 2, 2006"),
		e.Mood.Label(),
		e.Title,
	)
	preview := strings.Join(strings.Fields(e.Content), " ")
	if r := []rune(preview); len(r) > 60 {
		preview = string(r[:60]) + "..."
	}
	if selected {
		return selectedStyle.Render("> "+line) + "\n    " + mutedStyle.Render(preview)
	}
	return "  " + line + "\n    " + mutedStyle.Render(preview)
}
