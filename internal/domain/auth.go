// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id" firestore:"id"`
	Email        string    `json:"email" firestore:"email"`
	PasswordHash string    `json:"-" firestore:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// Identity is the public view of the signed-in user handed to observers.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Identity returns the public identity of u.
func (u *User) Identity() *Identity {
	return &Identity{UserID: u.ID, Email: u.Email}
}

// Session represents an active login session on the server.
type Session struct {
	Token     string    `firestore:"token"`
	UserID    string    `firestore:"userId"`
	UserAgent string    `firestore:"userAgent"`
	IP        string    `firestore:"ip"`
	ExpiresAt time.Time `firestore:"expiresAt"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// UserRepository defines the port for user persistence operations.
// GetByEmail and GetByID return (nil, nil) when no user matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// Create stores a new user and returns ErrEmailInUse for a duplicate email.
	Create(ctx context.Context, email, passwordHash string) (*User, error)
}

// SessionRepository defines the port for session persistence operations.
// GetByToken returns (nil, nil) when the token is unknown.
type SessionRepository interface {
	Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
