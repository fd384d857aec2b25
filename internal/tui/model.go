// Package tui is the terminal front end: sign-in, registration, the entry
// list and the entry editor, routed by the session guard.
package tui

import (
	"context"
	"time"

	"journal/internal/domain"
	"journal/internal/session"
	"journal/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// ─── Ports ───────────────────────────────────────────────────────────────────

// Authenticator signs users in and out. Identity changes reach the model as
// SessionMsg through the session observer, not through these results.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	Register(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
}

// TickFunc schedules a message after d. tea.Tick in production.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Auth    Authenticator
	Journal domain.Journal
	Log     zerolog.Logger
	Now     func() time.Time
	Tick    TickFunc
	Timeout time.Duration
}

// ─── Routes ──────────────────────────────────────────────────────────────────

type route int

const (
	routeSignIn route = iota
	routeRegister
	routeList
	routeEditor
)

func (r route) protected() bool { return r == routeList || r == routeEditor }

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the root bubbletea model.
type Model struct {
	auth    Authenticator
	journal domain.Journal
	log     zerolog.Logger
	now     func() time.Time
	tick    TickFunc
	timeout time.Duration

	sess session.Session

	route route

	// wanted is the protected route to enter once the session resolves.
	wanted    route
	wantedRef domain.EntryRef

	// screen increments on every navigation; async results carrying an
	// older value are dropped.
	screen int

	signIn   authForm
	register authForm

	list       *view.List
	search     textinput.Model
	searching  bool
	cursor     int
	listStatus string

	editor  *view.Editor
	title   textinput.Model
	content textarea.Model
	moodIdx int
	focus   editorFocus

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New builds the root model. It starts on the entry list, which waits for
// the first session snapshot before rendering.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tick == nil {
		opts.Tick = tea.Tick
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	search := textinput.New()
	search.Placeholder = "Search entries..."
	search.Prompt = "/ "

	m := Model{
		auth:     opts.Auth,
		journal:  opts.Journal,
		log:      opts.Log,
		now:      opts.Now,
		tick:     opts.Tick,
		timeout:  opts.Timeout,
		sess:     session.Session{IsLoading: true},
		route:    routeList,
		wanted:   routeList,
		signIn:   newAuthForm(false),
		register: newAuthForm(true),
		list:     view.NewList(),
		search:   search,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	m.title, m.content = newEditorInputs()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.content.SetWidth(max(20, msg.Width-6))
		m.content.SetHeight(max(5, msg.Height-16))
		return m, nil

	case SessionMsg:
		return m.sessionChanged(session.Session(msg))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.route {
		case routeSignIn, routeRegister:
			return m.updateAuth(msg)
		case routeList:
			return m.updateList(msg)
		case routeEditor:
			return m.updateEditor(msg)
		}

	case authDoneMsg:
		return m.authDone(msg)

	case signedOutMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("sign out")
		}
		return m, nil

	case entriesLoadedMsg:
		return m.entriesLoaded(msg)

	case entryLoadedMsg:
		return m.entryLoaded(msg)

	case entrySavedMsg:
		return m.entrySaved(msg)

	case celebrationTickMsg:
		return m.celebrationTick(msg)
	}
	return m, nil
}

// sessionChanged re-runs the guard for the current destination.
func (m Model) sessionChanged(s session.Session) (tea.Model, tea.Cmd) {
	m.sess = s
	switch {
	case m.route.protected() && s.SignedIn() && m.entered():
		return m, nil
	case m.route.protected():
		return m.navigate(m.route, m.wantedRef)
	case s.SignedIn():
		return m.navigate(m.wanted, m.wantedRef)
	}
	return m, nil
}

// entered reports whether the current protected screen has been set up for
// the signed-in user.
func (m Model) entered() bool {
	if m.route == routeEditor {
		return m.editor != nil
	}
	return m.list.HasLoaded() || m.list.Loading()
}

// navigate moves to r, consulting the guard for protected routes.
func (m Model) navigate(r route, ref domain.EntryRef) (tea.Model, tea.Cmd) {
	m.screen++
	if !r.protected() {
		m.route = r
		return m, m.focusAuth()
	}

	m.wanted, m.wantedRef = r, ref
	switch session.Guard(m.sess) {
	case session.Wait:
		m.route = r
		m.editor = nil
		return m, nil
	case session.RedirectSignIn:
		m.route = routeSignIn
		m.wanted, m.wantedRef = routeList, domain.Draft()
		m.editor = nil
		m.list = view.NewList()
		m.cursor = 0
		return m, m.focusAuth()
	}

	m.route = r
	if r == routeList {
		return m.enterList()
	}
	return m.enterEditor(ref)
}

// ─── View ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.route.protected() && session.Guard(m.sess) != session.Allow {
		return ""
	}
	var body string
	switch m.route {
	case routeSignIn:
		body = m.viewAuth(m.signIn, "Sign in", "Welcome back to your journal.")
	case routeRegister:
		body = m.viewAuth(m.register, "Create account", "Start writing today.")
	case routeList:
		body = m.viewList()
	case routeEditor:
		body = m.viewEditor()
	}
	return appStyle.Render(body)
}
