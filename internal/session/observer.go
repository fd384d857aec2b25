// Package session tracks who is signed in and decides whether protected
// screens may be shown.
package session

import (
	"sync"

	"journal/internal/domain"
)

// Session is a snapshot of the observed auth state.
type Session struct {
	UserID    string
	Email     string
	IsLoading bool
}

// SignedIn reports whether a user is present.
func (s Session) SignedIn() bool { return s.UserID != "" }

// Source delivers identity changes. A nil identity means signed out.
type Source interface {
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())
}

// Observer mirrors a Source into a Session. It starts out loading and
// stops loading at the first callback, never to load again.
type Observer struct {
	source Source

	mu          sync.Mutex
	state       Session
	unsubscribe func()
	started     bool
	changes     chan Session
}

// NewObserver creates an observer over source. Nothing is subscribed until
// Start.
func NewObserver(source Source) *Observer {
	return &Observer{
		source:  source,
		state:   Session{IsLoading: true},
		changes: make(chan Session, 1),
	}
}

// Start subscribes to the source. Calling it again is a no-op.
func (o *Observer) Start() {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.mu.Unlock()

	unsubscribe := o.source.Subscribe(o.update)

	o.mu.Lock()
	o.unsubscribe = unsubscribe
	o.mu.Unlock()
}

// Stop releases the subscription. It is safe to call more than once and
// before Start.
func (o *Observer) Stop() {
	o.mu.Lock()
	unsubscribe := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Session returns the current snapshot.
func (o *Observer) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Changes delivers each new snapshot. The buffer holds only the latest one.
func (o *Observer) Changes() <-chan Session {
	return o.changes
}

func (o *Observer) update(id *domain.Identity) {
	next := Session{}
	if id != nil {
		next.UserID = id.UserID
		next.Email = id.Email
	}

	o.mu.Lock()
	o.state = next
	// Replace any unread snapshot so readers always see the latest.
	select {
	case <-o.changes:
	default:
	}
	o.changes <- next
	o.mu.Unlock()
}
