package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"journal/internal/app"
	"journal/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the error envelope. Server errors never expose the
// underlying message.
func writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg, Code: errorCode(status, err)})
}

func errorCode(status int, err error) string {
	var ae *domain.AuthError
	switch {
	case errors.As(err, &ae):
		return string(ae.Kind)
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, domain.ErrUnknownMood):
		return "unknown_mood"
	case status >= http.StatusInternalServerError:
		return "internal"
	}
	return "bad_request"
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var ae *domain.AuthError
	switch {
	case errors.As(err, &ae):
		switch ae.Kind {
		case domain.AuthInvalidCredentials, domain.AuthUnauthenticated:
			return http.StatusUnauthorized
		case domain.AuthEmailInUse:
			return http.StatusConflict
		case domain.AuthWeakPassword, domain.AuthInvalidEmail:
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrUnknownMood),
		errors.Is(err, app.ErrInvalidDays):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
