package tui

import (
	"strings"

	"journal/internal/domain"
	"journal/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editorFocus int

const (
	focusTitle editorFocus = iota
	focusContent
	focusMood
	focusCount
)

func newEditorInputs() (textinput.Model, textarea.Model) {
	title := textinput.New()
	title.Placeholder = "Give your entry a title..."
	title.Prompt = ""
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your thoughts..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetWidth(72)
	content.SetHeight(10)
	return title, content
}

func moodIndex(mood domain.Mood) int {
	for i, md := range domain.Moods {
		if md == mood {
			return i
		}
	}
	return 0
}

func (m Model) enterEditor(ref domain.EntryRef) (tea.Model, tea.Cmd) {
	m.editor = view.OpenEditor(ref)
	m.title, m.content = newEditorInputs()
	if m.width > 0 {
		m.content.SetWidth(max(20, m.width-6))
		m.content.SetHeight(max(5, m.height-16))
	}
	m.syncInputs()

	focus := m.setEditorFocus(focusTitle)
	id, ok := ref.ID()
	if !ok {
		return m, focus
	}
	return m, tea.Batch(focus, m.loadEntryCmd(m.screen, m.editor.Generation(), m.sess.UserID, id))
}

// syncInputs copies the editor's fields into the widgets.
func (m *Model) syncInputs() {
	f := m.editor.Fields()
	m.title.SetValue(f.Title)
	m.content.SetValue(f.Content)
	m.moodIdx = moodIndex(f.Mood)
}

func (m *Model) setEditorFocus(f editorFocus) tea.Cmd {
	m.focus = (f + focusCount) % focusCount
	m.title.Blur()
	m.content.Blur()
	switch m.focus {
	case focusTitle:
		return m.title.Focus()
	case focusContent:
		return m.content.Focus()
	}
	return nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		e.Cancel()
		return m.afterEditorChange()
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.NextField):
		return m, m.setEditorFocus(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setEditorFocus(m.focus - 1)
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		e.SetTitle(m.title.Value())
	case focusContent:
		m.content, cmd = m.content.Update(msg)
		e.SetContent(m.content.Value())
	case focusMood:
		n := len(domain.Moods)
		switch {
		case key.Matches(msg, m.keys.MoodPrev):
			m.moodIdx = (m.moodIdx - 1 + n) % n
		case key.Matches(msg, m.keys.MoodNext):
			m.moodIdx = (m.moodIdx + 1) % n
		}
		e.SetMood(domain.Moods[m.moodIdx])
	}
	// A rejected edit leaves the widget out of step with the editor.
	if f := e.Fields(); f.Title != m.title.Value() || f.Content != m.content.Value() || f.Mood != domain.Moods[m.moodIdx] {
		m.syncInputs()
	}
	return m, cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	req, ok := m.editor.BeginSave()
	if !ok {
		return m, nil
	}
	return m, m.saveEntryCmd(m.screen, m.sess.UserID, req)
}

func (m Model) entryLoaded(msg entryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen || m.editor == nil {
		return m, nil
	}
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("entry", m.editor.Ref().String()).Msg("load entry")
		m.editor.LoadFailed(msg.gen, msg.err)
		return m.afterEditorChange()
	}
	m.editor.Loaded(msg.gen, msg.entry)
	m.syncInputs()
	return m, nil
}

func (m Model) entrySaved(msg entrySavedMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen || m.editor == nil {
		return m, nil
	}
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("entry", m.editor.Ref().String()).Msg("save entry")
		m.editor.SaveFailed(msg.gen, msg.err)
		return m, nil
	}
	m.editor.Saved(msg.gen, msg.id, m.now())
	if m.editor.State() != view.Celebrating {
		return m, nil
	}
	return m, m.celebrationCmd(m.screen, view.CelebrationWindow)
}

func (m Model) celebrationTick(msg celebrationTickMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen || m.editor == nil {
		return m, nil
	}
	m.editor.Tick(msg.at)
	if m.editor.State() == view.Celebrating {
		return m, m.celebrationCmd(m.screen, m.editor.CelebrationEnds().Sub(msg.at))
	}
	return m.afterEditorChange()
}

func (m Model) afterEditorChange() (tea.Model, tea.Cmd) {
	if m.editor != nil && m.editor.State() == view.Redirecting {
		return m.navigate(routeList, domain.Draft())
	}
	return m, nil
}

func (m Model) viewEditor() string {
	e := m.editor
	if e == nil {
		return ""
	}
	heading := "New Entry"
	if !e.Ref().IsDraft() {
		heading = "Edit Entry"
	}

	switch e.State() {
	case view.Loading:
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(heading), "", mutedStyle.Render("Loading entry..."))
	case view.Celebrating, view.Redirecting:
		return celebrationStyle.Render("🎉 Entry saved! 🎉")
	}

	moods := make([]string, len(domain.Moods))
	for i, md := range domain.Moods {
		if i == m.moodIdx {
			moods[i] = selectedStyle.Render("[" + md.Label() + "]")
			continue
		}
		moods[i] = mutedStyle.Render(" " + md.Label() + " ")
	}
	moodLabel := mutedStyle.Render("Mood")
	if m.focus == focusMood {
		moodLabel = selectedStyle.Render("Mood")
	}

	rows := []string{
		titleStyle.Render(heading), "",
		mutedStyle.Render("Title"), m.title.View(), "",
		mutedStyle.Render("Content"), m.content.View(), "",
		moodLabel, strings.Join(moods, " "), "",
	}
	switch e.State() {
	case view.Saving:
		rows = append(rows, mutedStyle.Render("Saving..."))
	case view.EditingWithError:
		rows = append(rows, errorStyle.Render("Could not save: "+e.Err().Error()))
	default:
		if !e.CanSave() {
			rows = append(rows, mutedStyle.Render("Title and content are required."))
		} else {
			rows = append(rows, successStyle.Render("Ready to save."))
		}
	}
	rows = append(rows, "", m.help.View(m.keys.forRoute(routeEditor)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
