// Package adapthttp implements the HTTP adapters for the journal API and the
// contact relay.
package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"journal/internal/app"
	"journal/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
)

var (
	errSSODisabled  = errors.New("sso disabled")
	errInvalidState = errors.New("invalid state")
	errNoIDToken    = errors.New("no id_token")
	errNoEmailClaim = errors.New("identity provider returned no email")
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *domain.Identity `json:"user"`
	Token string           `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, user, err := s.authSvc.Register(r.Context(), req.Email, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		s.authFailed(w, "register_failed", err)
		return
	}
	s.metrics.AuthEvent("register")

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, sessionResponse{User: user.Identity(), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, user, err := s.authSvc.SignIn(r.Context(), req.Email, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		s.authFailed(w, "login_failed", err)
		return
	}
	s.metrics.AuthEvent("login")

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionResponse{User: user.Identity(), Token: token})
}

func (s *Server) authFailed(w http.ResponseWriter, event string, err error) {
	s.metrics.AuthEvent(event)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("event", event).Msg("auth")
	}
	writeError(w, status, err)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.authSvc.SignOut(r.Context(), token); err != nil {
			s.log.Warn().Err(err).Msg("delete session")
		}
	}
	s.metrics.AuthEvent("logout")

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Identity()})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ssoEnabled": s.oidcConfig.Enabled,
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.authSvc.SessionTTL().Seconds()),
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeError(w, http.StatusNotFound, errSSODisabled)
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidcConfig.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

// handleSSOCallback finishes the OIDC flow. The session token is returned in
// the body as well so terminal clients can store it.
func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeError(w, http.StatusNotFound, errSSODisabled)
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || !app.ConstantTimeCompare(r.URL.Query().Get("state"), state.Value) {
		writeError(w, http.StatusBadRequest, errInvalidState)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	token, err := s.oidcConfig.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.log.Error().Err(err).Msg("sso exchange")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		writeError(w, http.StatusInternalServerError, errNoIDToken)
		return
	}

	idToken, err := s.oidcConfig.Provider.Verifier(&oidc.Config{ClientID: s.oidcConfig.OAuth2Config.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		s.log.Error().Err(err).Msg("sso verify")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var claims struct {
		Email string `json:"email"`
		Sub   string `json:"sub"`
	}
	if err = idToken.Claims(&claims); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if claims.Email == "" {
		writeError(w, http.StatusBadRequest, errNoEmailClaim)
		return
	}

	sessionToken, user, err := s.authSvc.LoginWithUser(r.Context(), claims.Email, r.RemoteAddr)
	if err != nil {
		s.log.Error().Err(err).Str("sub", claims.Sub).Msg("sso login")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.AuthEvent("sso_login")

	s.setSessionCookie(w, sessionToken)
	writeJSON(w, http.StatusOK, sessionResponse{User: user.Identity(), Token: sessionToken})
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
