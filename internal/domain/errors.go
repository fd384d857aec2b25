package domain

import "errors"

var (
	// ErrNotFound indicates that no entry exists at the requested path.
	ErrNotFound = errors.New("entry not found")
	// ErrEmailInUse is returned by user stores for a duplicate email.
	ErrEmailInUse = errors.New("email already in use")
)

// AuthErrorKind classifies failures of the auth provider.
type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthEmailInUse         AuthErrorKind = "email_in_use"
	AuthWeakPassword       AuthErrorKind = "weak_password"
	AuthInvalidEmail       AuthErrorKind = "invalid_email"
	AuthUnauthenticated    AuthErrorKind = "unauthenticated"
	AuthNetwork            AuthErrorKind = "network"
)

var authMessages = map[AuthErrorKind]string{
	AuthInvalidCredentials: "invalid email or password",
	AuthEmailInUse:         "an account with this email already exists",
	AuthWeakPassword:       "password should be at least 6 characters",
	AuthInvalidEmail:       "invalid email address",
	AuthUnauthenticated:    "not signed in",
	AuthNetwork:            "network error, please try again",
}

// AuthError is a sign-in, sign-up or session failure meant to be shown to
// the user next to the form that caused it.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	msg, ok := authMessages[e.Kind]
	if !ok {
		msg = string(e.Kind)
	}
	if e.Err != nil && e.Kind == AuthNetwork {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError returns an AuthError of the given kind.
func NewAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

// IsAuthKind reports whether err is an AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}

// FetchError wraps a failed list or get against the entry store.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return "fetch " + e.Op + ": " + e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// SaveError wraps a failed entry write.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "save entry: " + e.Err.Error() }

func (e *SaveError) Unwrap() error { return e.Err }
