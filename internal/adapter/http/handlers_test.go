package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adapthttp "journal/internal/adapter/http"
	"journal/internal/adapter/memory"
	"journal/internal/app"
	"journal/internal/metrics"

	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Test-server helpers
// ---------------------------------------------------------------------------

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := memory.New()
	authSvc := app.NewAuthService(db, db.NewSessionRepo(), time.Hour)
	journalSvc := app.NewJournalService(db)

	srv := adapthttp.New(journalSvc, authSvc, zerolog.Nop()).WithMetrics(metrics.New("api"))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func register(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	token, _ := decodeBody(t, resp)["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func createEntry(t *testing.T, ts *httptest.Server, token, title, content string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/entries", token, map[string]string{
		"title": title, "content": content, "mood": "happy",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	id, _ := decodeBody(t, resp)["id"].(string)
	if id == "" {
		t.Fatal("create returned no id")
	}
	return id
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
}

func TestEntriesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"unknown token", "not-a-session"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, ts.URL+"/api/entries", tc.token, nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
			if body := decodeBody(t, resp); body["code"] != "unauthenticated" {
				t.Errorf("expected code unauthenticated, got %v", body["code"])
			}
		})
	}
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "ana@example.com")

	tests := []struct {
		name       string
		payload    map[string]string
		wantStatus int
		wantCode   string
	}{
		{"duplicate email", map[string]string{"email": "ANA@example.com", "password": "secret123"}, http.StatusConflict, "email_in_use"},
		{"short password", map[string]string{"email": "ben@example.com", "password": "12345"}, http.StatusBadRequest, "weak_password"},
		{"invalid email", map[string]string{"email": "not-an-email", "password": "secret123"}, http.StatusBadRequest, "invalid_email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", tc.payload)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			if body := decodeBody(t, resp); body["code"] != tc.wantCode {
				t.Errorf("expected code %q, got %v", tc.wantCode, body["code"])
			}
		})
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "ana@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email": " Ana@Example.com ", "password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ana@example.com" {
		t.Errorf("expected normalised email, got %v", user["email"])
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != body["token"] {
		t.Fatalf("expected session cookie matching token, got %+v", cookie)
	}

	// The cookie alone authenticates.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/me", nil)
	req.AddCookie(cookie)
	me, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	defer me.Body.Close() //nolint:errcheck
	if me.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", me.StatusCode)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")

	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/logout", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestEntryLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")

	id := createEntry(t, ts, token, "Trip", "Great day")

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/entries/"+id, token, map[string]string{
		"title": "Trip", "content": "Great day at the lake", "mood": "excited",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	if got := decodeBody(t, resp)["id"]; got != id {
		t.Fatalf("update changed id: %v != %s", got, id)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/entries/"+id, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	entry := decodeBody(t, resp)
	if entry["content"] != "Great day at the lake" || entry["mood"] != "excited" {
		t.Errorf("unexpected entry: %v", entry)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/entries", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	list := decodeBody(t, resp)
	items, _ := list["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected exactly one document, got %d", len(items))
	}
	stats, _ := list["stats"].(map[string]any)
	if stats["totalEntries"] != float64(1) || stats["thisWeek"] != float64(1) || stats["avgWordsPerEntry"] != float64(5) {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestSaveEntryValidation(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")

	tests := []struct {
		name     string
		payload  map[string]string
		wantCode string
	}{
		{"empty title", map[string]string{"title": "", "content": "body"}, "missing_fields"},
		{"blank content", map[string]string{"title": "t", "content": "   "}, "missing_fields"},
		{"unknown mood", map[string]string{"title": "t", "content": "c", "mood": "grumpy"}, "unknown_mood"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/entries", token, tc.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if body := decodeBody(t, resp); body["code"] != tc.wantCode {
				t.Errorf("expected code %q, got %v", tc.wantCode, body["code"])
			}
		})
	}

	list := decodeBody(t, doJSON(t, http.MethodGet, ts.URL+"/api/entries", token, nil))
	if items, _ := list["items"].([]any); len(items) != 0 {
		t.Fatalf("rejected saves must not write, got %d entries", len(items))
	}
}

func TestPutNewCreatesEntry(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")

	first := doJSON(t, http.MethodPut, ts.URL+"/api/entries/new", token, map[string]string{"title": "a", "content": "b"})
	second := doJSON(t, http.MethodPut, ts.URL+"/api/entries/new", token, map[string]string{"title": "a", "content": "b"})
	if first.StatusCode != http.StatusCreated || second.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201s, got %d and %d", first.StatusCode, second.StatusCode)
	}
	a, b := decodeBody(t, first)["id"], decodeBody(t, second)["id"]
	if a == b || a == "new" || b == "new" {
		t.Fatalf("expected two distinct generated ids, got %v and %v", a, b)
	}

	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/entries/new", token, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET of a draft: expected 404, got %d", resp.StatusCode)
	}
}

func TestEntriesAreScopedToTheSignedInUser(t *testing.T) {
	ts := newTestServer(t)
	ana := register(t, ts, "ana@example.com")
	ben := register(t, ts, "ben@example.com")

	id := createEntry(t, ts, ana, "Private", "only mine")

	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/entries/"+id, ben, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get other user's entry: expected 404, got %d", resp.StatusCode)
	}
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/entries/"+id, ben, map[string]string{"title": "x", "content": "y"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("overwrite other user's entry: expected 404, got %d", resp.StatusCode)
	}
	list := decodeBody(t, doJSON(t, http.MethodGet, ts.URL+"/api/entries", ben, nil))
	if items, _ := list["items"].([]any); len(items) != 0 {
		t.Fatalf("expected empty list for other user, got %d", len(items))
	}

	got := decodeBody(t, doJSON(t, http.MethodGet, ts.URL+"/api/entries/"+id, ana, nil))
	if got["title"] != "Private" {
		t.Fatalf("owner's entry changed: %v", got)
	}
}

func TestSSODisabled(t *testing.T) {
	ts := newTestServer(t)

	body := decodeBody(t, doJSON(t, http.MethodGet, ts.URL+"/api/auth/config", "", nil))
	if body["ssoEnabled"] != false {
		t.Fatalf("expected ssoEnabled=false, got %v", body["ssoEnabled"])
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(ts.URL + "/api/auth/sso/login")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/entries/abc", token, nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")
	createEntry(t, ts, token, "a", "b")

	resp := doJSON(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `journal_api_entries_saved_total{kind="create"} 1`) {
		t.Errorf("expected create counter in metrics output:\n%s", b)
	}
}

func TestHealthReportsStoreFailure(t *testing.T) {
	db := memory.New()
	authSvc := app.NewAuthService(db, db.NewSessionRepo(), time.Hour)
	srv := adapthttp.New(app.NewJournalService(db), authSvc, zerolog.Nop()).
		WithHealthCheck(func(context.Context) error { return errors.New("db down") })
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestDailyChart(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "ana@example.com")
	createEntry(t, ts, token, "Trip", "Great day out")

	body := decodeBody(t, doJSON(t, http.MethodGet, ts.URL+"/api/entries/daily?days=7", token, nil))
	items, _ := body["items"].([]any)
	if len(items) != 7 {
		t.Fatalf("expected 7 points, got %d", len(items))
	}
	today, _ := items[6].(map[string]any)
	if body["today"] != today["day"] {
		t.Errorf("header today %v disagrees with last point %v", body["today"], today["day"])
	}
	if today["entries"] != float64(1) || today["words"] != float64(3) || today["mood"] != "happy" {
		t.Errorf("unexpected point for today: %v", today)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/entries/daily?days=-1", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative days, got %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/entries/daily", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", resp.StatusCode)
	}
}
