package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"journal/internal/domain"
)

// Auth is the client-side auth provider. It keeps the signed-in identity
// and notifies subscribers whenever it changes.
type Auth struct {
	c *Client

	// delivery orders replays and emits so no subscriber sees a stale
	// state after a newer one.
	delivery sync.Mutex

	mu        sync.Mutex
	listeners map[int]func(*domain.Identity)
	nextID    int
	current   *domain.Identity
	resolved  bool
}

// NewAuth creates an Auth provider using c.
func NewAuth(c *Client) *Auth {
	return &Auth{c: c, listeners: make(map[int]func(*domain.Identity))}
}

// Subscribe registers fn for identity changes. Once the first state is
// known, fn is also called right away with it. The returned function
// removes the subscription and may be called more than once. fn must not
// call back into a method that changes the identity.
func (a *Auth) Subscribe(fn func(*domain.Identity)) func() {
	a.delivery.Lock()
	defer a.delivery.Unlock()

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	resolved, current := a.resolved, a.current
	a.mu.Unlock()

	if resolved {
		fn(current)
	}
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// Identity returns the signed-in identity or nil.
func (a *Auth) Identity() *domain.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *Auth) emit(id *domain.Identity) {
	a.delivery.Lock()
	defer a.delivery.Unlock()

	a.mu.Lock()
	a.current = id
	a.resolved = true
	fns := make([]func(*domain.Identity), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// Restore loads the persisted token and validates it with the server.
// Exactly one identity callback follows: the user, or nil when there is no
// valid session. A network failure also resolves to nil and is returned.
func (a *Auth) Restore(ctx context.Context) error {
	token, err := a.c.tokens.Load()
	if err != nil || token == "" {
		a.emit(nil)
		return err
	}
	a.c.setToken(token)

	id, err := a.me(ctx)
	if err != nil {
		a.c.setToken("")
		if domain.IsAuthKind(err, domain.AuthUnauthenticated) {
			_ = a.c.tokens.Clear()
			a.emit(nil)
			return nil
		}
		a.emit(nil)
		return err
	}
	a.emit(id)
	return nil
}

// UseToken adopts a token obtained out of band (single sign-on).
func (a *Auth) UseToken(ctx context.Context, token string) (*domain.Identity, error) {
	a.c.setToken(token)
	id, err := a.me(ctx)
	if err != nil {
		a.c.setToken("")
		return nil, err
	}
	if err := a.c.tokens.Save(token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	a.emit(id)
	return id, nil
}

// SignIn authenticates with email and password.
func (a *Auth) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	return a.startSession(ctx, "/api/auth/login", email, password)
}

// Register creates an account and signs it in.
func (a *Auth) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	return a.startSession(ctx, "/api/auth/register", email, password)
}

// SignOut ends the session on the server and forgets the local token.
// The identity becomes nil even when the server cannot be reached.
func (a *Auth) SignOut(ctx context.Context) error {
	var err error
	if a.c.currentToken() != "" {
		resp, rerr := a.c.request(ctx).Post("/api/auth/logout")
		if rerr != nil {
			err = domain.NewAuthError(domain.AuthNetwork, rerr)
		} else if resp.StatusCode() != http.StatusOK {
			err = fmt.Errorf("logout: %s", decodeAPIError(resp).Error)
		}
	}
	a.c.setToken("")
	if cerr := a.c.tokens.Clear(); cerr != nil && err == nil {
		err = fmt.Errorf("clear token: %w", cerr)
	}
	a.emit(nil)
	return err
}

type sessionResponse struct {
	User  *domain.Identity `json:"user"`
	Token string           `json:"token"`
}

func (a *Auth) startSession(ctx context.Context, path, email, password string) (*domain.Identity, error) {
	var out sessionResponse
	resp, err := a.c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post(path)
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthNetwork, err)
	}
	if resp.IsError() {
		return nil, authErrorFrom(resp.StatusCode(), decodeAPIError(resp))
	}
	if out.User == nil || out.Token == "" {
		return nil, fmt.Errorf("%s: malformed response", path)
	}

	a.c.setToken(out.Token)
	if err := a.c.tokens.Save(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	a.emit(out.User)
	return out.User, nil
}

func (a *Auth) me(ctx context.Context) (*domain.Identity, error) {
	var out struct {
		User *domain.Identity `json:"user"`
	}
	resp, err := a.c.request(ctx).SetResult(&out).Get("/api/auth/me")
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthNetwork, err)
	}
	if resp.IsError() {
		return nil, authErrorFrom(resp.StatusCode(), decodeAPIError(resp))
	}
	if out.User == nil {
		return nil, fmt.Errorf("me: malformed response")
	}
	return out.User, nil
}

var authKinds = map[string]domain.AuthErrorKind{
	string(domain.AuthInvalidCredentials): domain.AuthInvalidCredentials,
	string(domain.AuthEmailInUse):         domain.AuthEmailInUse,
	string(domain.AuthWeakPassword):       domain.AuthWeakPassword,
	string(domain.AuthInvalidEmail):       domain.AuthInvalidEmail,
	string(domain.AuthUnauthenticated):    domain.AuthUnauthenticated,
}

func authErrorFrom(status int, e apiError) error {
	if kind, ok := authKinds[e.Code]; ok {
		return domain.NewAuthError(kind, nil)
	}
	if status == http.StatusUnauthorized {
		return domain.NewAuthError(domain.AuthUnauthenticated, nil)
	}
	return fmt.Errorf("auth request failed (%d): %s", status, e.Error)
}
