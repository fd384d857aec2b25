package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	New     key.Binding
	Search  key.Binding
	Refresh key.Binding
	SignOut key.Binding
	Quit    key.Binding

	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Switch    key.Binding

	Save     key.Binding
	Cancel   key.Binding
	MoodPrev key.Binding
	MoodNext key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new entry")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		SignOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Switch:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "sign in / register")),

		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		MoodPrev: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "mood")),
		MoodNext: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "mood")),
	}
}

type routeHelp struct {
	short []key.Binding
}

func (h routeHelp) ShortHelp() []key.Binding  { return h.short }
func (h routeHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.short} }

func (k keyMap) forRoute(r route) routeHelp {
	switch r {
	case routeSignIn, routeRegister:
		return routeHelp{[]key.Binding{k.NextField, k.Submit, k.Switch}}
	case routeEditor:
		return routeHelp{[]key.Binding{k.NextField, k.MoodPrev, k.MoodNext, k.Save, k.Cancel}}
	}
	return routeHelp{[]key.Binding{k.Up, k.Down, k.Open, k.New, k.Search, k.Refresh, k.SignOut, k.Quit}}
}
