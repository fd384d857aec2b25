package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"journal/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	createFn     func(ctx context.Context, email, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, passwordHash)
	}
	return &domain.User{ID: "u1", Email: email, PasswordHash: passwordHash}, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func TestAuthService_SignIn_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email != "ana@example.com" {
				t.Errorf("expected normalized email, got %q", email)
			}
			return &domain.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}

	var gotExpiry time.Time
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
			if userID != "u1" {
				t.Errorf("expected userID u1, got %s", userID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			if userAgent != "journal-cli" {
				t.Errorf("expected user agent to be recorded, got %q", userAgent)
			}
			gotExpiry = expiresAt
			return nil
		},
	}

	svc := NewAuthService(users, sessions, time.Hour)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, user, err := svc.SignIn(ctx, "  Ana@Example.com ", password, "journal-cli", "127.0.0.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
	if user.ID != "u1" {
		t.Errorf("expected user u1, got %s", user.ID)
	}
	if !gotExpiry.Equal(fixed.Add(time.Hour)) {
		t.Errorf("expected expiry one ttl from now, got %v", gotExpiry)
	}
}

func TestAuthService_SignIn_InvalidPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, 0)

	_, _, err := svc.SignIn(context.Background(), "ana@example.com", "wrongpass", "", "")
	if !domain.IsAuthKind(err, domain.AuthInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}
}

func TestAuthService_SignIn_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)
	_, _, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever", "", "")
	if !domain.IsAuthKind(err, domain.AuthInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}
}

func TestAuthService_SignIn_SSOAccountHasNoPassword(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, 0)
	_, _, err := svc.SignIn(context.Background(), "sso@example.com", "", "", "")
	if !domain.IsAuthKind(err, domain.AuthInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		createFn func(ctx context.Context, email, hash string) (*domain.User, error)
		wantKind domain.AuthErrorKind
	}{
		{name: "success", email: "New@Example.com", password: "secret1"},
		{name: "weak password", email: "a@example.com", password: "123", wantKind: domain.AuthWeakPassword},
		{name: "invalid email", email: "not-an-email", password: "secret1", wantKind: domain.AuthInvalidEmail},
		{
			name: "email in use", email: "a@example.com", password: "secret1",
			createFn: func(ctx context.Context, email, hash string) (*domain.User, error) {
				return nil, domain.ErrEmailInUse
			},
			wantKind: domain.AuthEmailInUse,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sessionCreated := false
			users := &mockUserRepo{createFn: tc.createFn}
			sessions := &mockSessionRepo{
				createFn: func(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
					sessionCreated = true
					return nil
				},
			}
			svc := NewAuthService(users, sessions, 0)

			token, user, err := svc.Register(context.Background(), tc.email, tc.password, "", "")
			if tc.wantKind != "" {
				if !domain.IsAuthKind(err, tc.wantKind) {
					t.Fatalf("expected %s, got %v", tc.wantKind, err)
				}
				if sessionCreated {
					t.Error("no session expected on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token == "" || !sessionCreated {
				t.Error("expected a signed-in session")
			}
			if user.Email != "new@example.com" {
				t.Errorf("expected normalized email, got %s", user.Email)
			}
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tc.password)) != nil {
				t.Error("stored hash does not match password")
			}
		})
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	token := "validtoken"

	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    "u1",
				UserAgent: "journal-cli",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: "ana@example.com"}, nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	user, err := svc.ValidateSession(ctx, token, "journal-cli")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected email 'ana@example.com', got %s", user.Email)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, UserID: "u1", ExpiresAt: time.Now().Add(-1 * time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	_, err := svc.ValidateSession(context.Background(), "expiredtoken", "")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_ValidateSession_UserAgentMismatch(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, UserID: "u1", UserAgent: "a", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	if _, err := svc.ValidateSession(context.Background(), "t", "b"); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_LoginWithUser_SessionValidFromAnyClient(t *testing.T) {
	stored := map[string]*domain.Session{}
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
			stored[token] = &domain.Session{Token: token, UserID: userID, UserAgent: userAgent, IP: ip, ExpiresAt: expiresAt}
			return nil
		},
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return stored[token], nil
		},
		deleteFn: func(ctx context.Context, token string) error {
			t.Error("SSO session must not be deleted")
			return nil
		},
	}
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email}, nil
		},
		getByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "sso@example.com"}, nil
		},
	}
	svc := NewAuthService(users, sessions, time.Hour)

	token, _, err := svc.LoginWithUser(context.Background(), "sso@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ua := stored[token].UserAgent; ua != "" {
		t.Errorf("expected unbound session, got user agent %q", ua)
	}
	user, err := svc.ValidateSession(context.Background(), token, "journal-cli/1")
	if err != nil {
		t.Fatalf("expected session valid from the terminal client, got %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("expected u1, got %s", user.ID)
	}
}

func TestAuthService_ValidateSession_Unknown(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)
	if _, err := svc.ValidateSession(context.Background(), "nope", ""); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_LoginWithUser_ProvisionsNewUser(t *testing.T) {
	created := false
	users := &mockUserRepo{
		createFn: func(ctx context.Context, email, passwordHash string) (*domain.User, error) {
			created = true
			if passwordHash != "" {
				t.Error("SSO accounts carry no password")
			}
			return &domain.User{ID: "u2", Email: email}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, 0)

	token, user, err := svc.LoginWithUser(context.Background(), "sso@example.com", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created || user.ID != "u2" || token == "" {
		t.Errorf("unexpected result: created=%v user=%+v", created, user)
	}
}

func TestAuthService_LoginWithUser_CreateRace(t *testing.T) {
	calls := 0
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			calls++
			if calls == 1 {
				return nil, nil
			}
			return &domain.User{ID: "u3", Email: email}, nil
		},
		createFn: func(ctx context.Context, email, passwordHash string) (*domain.User, error) {
			return nil, domain.ErrEmailInUse
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, 0)

	_, user, err := svc.LoginWithUser(context.Background(), "sso@example.com", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != "u3" {
		t.Errorf("expected existing user u3, got %s", user.ID)
	}
}

func TestAuthService_SweepExpired(t *testing.T) {
	wantErr := errors.New("boom")
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{
		deleteExpiredFn: func(ctx context.Context) error { return wantErr },
	}, 0)
	if err := svc.SweepExpired(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected sweep error to propagate, got %v", err)
	}
}
