// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"journal/internal/domain"

	"github.com/google/uuid"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	entries  map[string]map[string]domain.Entry
	users    []*domain.User
	sessions map[string]*domain.Session
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		entries:  make(map[string]map[string]domain.Entry),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.EntryRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- EntryRepository ---

// ListEntries returns the user's entries, newest first.
func (db *DB) ListEntries(ctx context.Context, userID string) ([]domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Entry, 0, len(db.entries[userID]))
	for _, e := range db.entries[userID] {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetEntry returns one entry of the user.
func (db *DB) GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.entries[userID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// CreateEntry stores a new entry under a fresh id.
func (db *DB) CreateEntry(ctx context.Context, userID string, f domain.EntryFields, now time.Time) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	ns, ok := db.entries[userID]
	if !ok {
		ns = make(map[string]domain.Entry)
		db.entries[userID] = ns
	}
	id := uuid.NewString()
	ns[id] = domain.Entry{
		ID:        id,
		Title:     f.Title,
		Content:   f.Content,
		Mood:      f.Mood,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	return id, nil
}

// UpdateEntry overwrites the editable fields of an existing entry.
func (db *DB) UpdateEntry(ctx context.Context, userID, id string, f domain.EntryFields, now time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.entries[userID][id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Title = f.Title
	e.Content = f.Content
	e.Mood = f.Mood
	e.UpdatedAt = now.UTC()
	db.entries[userID][id] = e
	return nil
}

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, domain.ErrEmailInUse
		}
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
