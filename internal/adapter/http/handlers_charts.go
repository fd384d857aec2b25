package adapthttp

import (
	"net/http"
	"strconv"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	days := intQuery(r, "days", 30)

	points, err := s.charts.GetDaily(r.Context(), user.ID, days)
	if err != nil {
		s.entryFailed(w, "daily chart", user.ID, err)
		return
	}

	// The last point is today in the service's clock and location.
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"today": points[len(points)-1].Day,
		"items": points,
	})
}

// intQuery returns the integer query parameter name, or def when it is
// missing or malformed.
func intQuery(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}
