package tui

import (
	"errors"
	"strings"

	"journal/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errPasswordMismatch = errors.New("passwords do not match")

type authForm struct {
	inputs []textinput.Model
	focus  int
	err    error
	busy   bool
}

func newAuthForm(confirm bool) authForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email     "
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password  "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	f := authForm{inputs: []textinput.Model{email, password}}
	if confirm {
		again := password
		again.Prompt = "Confirm   "
		again.Placeholder = "password again"
		f.inputs = append(f.inputs, again)
	}
	return f
}

func (f authForm) value(i int) string { return f.inputs[i].Value() }

func (f *authForm) setFocus(i int) tea.Cmd {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

func (f *authForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.err = nil
	f.busy = false
}

func (m *Model) activeForm() *authForm {
	if m.route == routeRegister {
		return &m.register
	}
	return &m.signIn
}

func (m *Model) focusAuth() tea.Cmd {
	if m.route.protected() {
		return nil
	}
	f := m.activeForm()
	return f.setFocus(f.focus)
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.activeForm()
	switch {
	case key.Matches(msg, m.keys.Switch):
		next := routeRegister
		if m.route == routeRegister {
			next = routeSignIn
		}
		return m.navigate(next, domain.Draft())
	case key.Matches(msg, m.keys.NextField):
		return m, f.setFocus(f.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.setFocus(f.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		return m.submitAuth()
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	f := m.activeForm()
	if f.busy {
		return m, nil
	}
	email := strings.TrimSpace(f.value(0))
	password := f.value(1)
	f.err = nil

	if m.route == routeRegister {
		if password != f.value(2) {
			f.err = errPasswordMismatch
			return m, nil
		}
		f.busy = true
		return m, m.registerCmd(m.screen, email, password)
	}
	f.busy = true
	return m, m.signInCmd(m.screen, email, password)
}

func (m Model) authDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen || m.route.protected() {
		return m, nil
	}
	f := m.activeForm()
	f.busy = false
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("authentication failed")
		f.err = msg.err
		return m, nil
	}
	f.reset()
	return m, nil
}

// authMessage renders err as a sentence for the form.
func authMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (m Model) viewAuth(f authForm, heading, tagline string) string {
	rows := []string{titleStyle.Render(heading), mutedStyle.Render(tagline), ""}
	for _, in := range f.inputs {
		rows = append(rows, in.View())
	}
	rows = append(rows, "")
	switch {
	case f.busy:
		rows = append(rows, mutedStyle.Render("Working..."))
	case f.err != nil:
		rows = append(rows, errorStyle.Render(authMessage(f.err)))
	}
	rows = append(rows, "", m.help.View(m.keys.forRoute(m.route)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
