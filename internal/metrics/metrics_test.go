package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New("api")

	m.EntrySaved(true)
	m.EntrySaved(true)
	m.EntrySaved(false)
	m.AuthEvent("login")
	m.ContactOutcome("sent")
	m.ObserveRequest(http.MethodGet, http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.entriesSaved.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entriesSaved.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contactOutcome.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EntrySaved(true)
		m.AuthEvent("login")
		m.ContactOutcome("failed")
		m.ObserveRequest(http.MethodPost, http.StatusInternalServerError, time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("api")
	m.EntrySaved(true)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `journal_api_entries_saved_total{kind="create"} 1`), string(body))
}
