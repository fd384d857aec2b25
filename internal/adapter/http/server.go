package adapthttp

import (
	"context"
	"net/http"

	"journal/internal/app"
	"journal/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional single sign-on setup.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// NewOIDCConfig discovers the issuer and builds the OAuth2 client.
func NewOIDCConfig(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return OIDCConfig{}, err
	}
	return OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	journal       *app.JournalService
	charts        *app.ChartsService
	authSvc       *app.AuthService
	oidcConfig    OIDCConfig
	metrics       *metrics.Metrics
	log           zerolog.Logger
	secureCookies bool
	ping          func(context.Context) error
}

// New creates a Server wired to the given application services.
func New(js *app.JournalService, as *app.AuthService, log zerolog.Logger) *Server {
	return &Server{journal: js, charts: app.NewChartsService(js), authSvc: as, log: log}
}

// WithOIDC enables the SSO endpoints.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithMetrics records request metrics and serves them on /metrics.
func (s *Server) WithMetrics(m *metrics.Metrics) *Server {
	s.metrics = m
	return s
}

// WithSecureCookies marks session cookies Secure.
func (s *Server) WithSecureCookies(secure bool) *Server {
	s.secureCookies = secure
	return s
}

// WithHealthCheck makes /api/health report the store's reachability.
func (s *Server) WithHealthCheck(ping func(context.Context) error) *Server {
	s.ping = ping
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", s.handleHealth)

	api.HandleFunc("POST /auth/register", s.handleRegister)
	api.HandleFunc("POST /auth/login", s.handleLogin)
	api.HandleFunc("POST /auth/logout", s.handleLogout)
	api.Handle("GET /auth/me", s.authMiddleware(http.HandlerFunc(s.handleMe)))
	api.HandleFunc("GET /auth/config", s.handleConfig)
	api.HandleFunc("GET /auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("GET /auth/sso/callback", s.handleSSOCallback)

	api.Handle("GET /entries", s.authMiddleware(http.HandlerFunc(s.handleListEntries)))
	api.Handle("POST /entries", s.authMiddleware(http.HandlerFunc(s.handleCreateEntry)))
	api.Handle("GET /entries/daily", s.authMiddleware(http.HandlerFunc(s.handleChartsDaily)))
	api.Handle("GET /entries/{id}", s.authMiddleware(http.HandlerFunc(s.handleGetEntry)))
	api.Handle("PUT /entries/{id}", s.authMiddleware(http.HandlerFunc(s.handleSaveEntry)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.metrics != nil {
		root.Handle("GET /metrics", s.metrics.Handler())
	}

	return s.recoveryMiddleware(s.loggingMiddleware(withNoCache(root)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("health check")
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
