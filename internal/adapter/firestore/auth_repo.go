package firestore

import (
	"context"
	"time"

	"journal/internal/domain"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

type account struct {
	UserID string `firestore:"userId"`
}

// GetByEmail resolves the email through the accounts index.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	doc, err := d.client.Collection(accountsCollection).Doc(email).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a account
	if err := doc.DataTo(&a); err != nil {
		return nil, err
	}
	return d.GetByID(ctx, a.UserID)
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := d.client.Collection(usersCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := doc.DataTo(&u); err != nil {
		return nil, err
	}
	u.ID = doc.Ref.ID
	return &u, nil
}

// Create writes the user and claims the email in one transaction.
func (d *DB) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	accountRef := d.client.Collection(accountsCollection).Doc(email)
	userRef := d.client.Collection(usersCollection).Doc(u.ID)

	err := d.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(accountRef)
		if err != nil && !isNotFound(err) {
			return err
		}
		if doc != nil && doc.Exists() {
			return domain.ErrEmailInUse
		}
		if err := tx.Create(accountRef, account{UserID: u.ID}); err != nil {
			return err
		}
		return tx.Create(userRef, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) sessions() *firestore.CollectionRef {
	return r.db.client.Collection(sessionsCollection)
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.sessions().Doc(token).Create(ctx, domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	doc, err := r.sessions().Doc(token).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s domain.Session
	if err := doc.DataTo(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.sessions().Doc(token).Delete(ctx)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	docs, err := r.sessions().Where("expiresAt", "<", time.Now().UTC()).Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	bw := r.db.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return err
		}
	}
	bw.End()
	return nil
}
