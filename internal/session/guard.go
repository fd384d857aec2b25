package session

// Decision is the outcome of guarding a protected screen.
type Decision int

const (
	// Wait renders nothing until the first auth callback.
	Wait Decision = iota
	// RedirectSignIn sends the user to the sign-in screen.
	RedirectSignIn
	// Allow shows the protected screen.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case RedirectSignIn:
		return "redirect-sign-in"
	case Allow:
		return "allow"
	}
	return "unknown"
}

// Guard decides whether a protected screen may be shown for s.
func Guard(s Session) Decision {
	switch {
	case s.IsLoading:
		return Wait
	case !s.SignedIn():
		return RedirectSignIn
	}
	return Allow
}
