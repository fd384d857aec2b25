package adapthttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"journal/internal/app"
	"journal/internal/domain"
	"journal/internal/metrics"

	"github.com/rs/zerolog"
)

// RelayServer serves the contact-form endpoint.
type RelayServer struct {
	contact *app.ContactService
	metrics *metrics.Metrics
	log     zerolog.Logger
	origins []string
}

// NewRelay creates a RelayServer that hands submissions to cs.
func NewRelay(cs *app.ContactService, log zerolog.Logger) *RelayServer {
	return &RelayServer{contact: cs, log: log, origins: []string{"*"}}
}

// WithMetrics records outcomes and serves them on /metrics.
func (s *RelayServer) WithMetrics(m *metrics.Metrics) *RelayServer {
	s.metrics = m
	return s
}

// WithAllowedOrigins restricts the CORS origins; "*" allows any.
func (s *RelayServer) WithAllowedOrigins(origins []string) *RelayServer {
	if len(origins) > 0 {
		s.origins = origins
	}
	return s
}

// Handler returns the root http.Handler of the relay.
func (s *RelayServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("POST /api/contact", s.handleContact)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s.withCORS(s.withRequestLog(mux))
}

// maxContactBody caps the size of a contact submission.
const maxContactBody = 64 << 10

type relayResponse struct {
	Message string `json:"message"`
}

func (s *RelayServer) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.ContactOutcome("rejected")
			writeJSON(w, http.StatusRequestEntityTooLarge, relayResponse{Message: "message too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, relayResponse{Message: "invalid json"})
		return
	}

	err := s.contact.Send(r.Context(), msg)
	switch {
	case errors.Is(err, domain.ErrIncompleteContact):
		s.metrics.ContactOutcome("rejected")
		writeJSON(w, http.StatusBadRequest, relayResponse{Message: err.Error()})
	case err != nil:
		s.metrics.ContactOutcome("failed")
		s.log.Error().Err(err).Str("from", msg.Email).Msg("relay contact message")
		writeJSON(w, http.StatusInternalServerError, relayResponse{Message: "failed to send message"})
	default:
		s.metrics.ContactOutcome("sent")
		writeJSON(w, http.StatusOK, relayResponse{Message: "sent"})
	}
}

func (s *RelayServer) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case slices.Contains(s.origins, "*"):
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *RelayServer) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(r.Method, rec.status, elapsed)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Msg("request")
	})
}
