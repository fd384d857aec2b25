package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	adapthttp "journal/internal/adapter/http"
	"journal/internal/adapter/memory"
	"journal/internal/app"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	server string
	state  string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	db := memory.New()
	authSvc := app.NewAuthService(db, db.NewSessionRepo(), time.Hour)
	srv := adapthttp.New(app.NewJournalService(db), authSvc, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &cli{t: t, server: ts.URL, state: t.TempDir()}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	cmd := New()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", c.server, "--state-dir", c.state}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRegisterWriteListShowLogout(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("secret123\n", "register", "--email", "ana@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, ana@example.com")

	out, err = c.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0 entries")
	assert.Contains(t, out, "No entries.")

	out, err = c.run("Great day\n", "new", "--title", "Trip", "--mood", "happy")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = c.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries, 1 this week, 2 words on average")
	assert.Contains(t, out, "Trip")
	assert.Contains(t, out, id)

	out, err = c.run("", "list", "--search", "nothing-matches")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries.")

	out, err = c.run("", "activity", "--days", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, "Happy")

	out, err = c.run("", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Trip\n====")
	assert.Contains(t, out, "Great day")

	out, err = c.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = c.run("", "list")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestLoginFailure(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("secret123\n", "register", "-e", "ana@example.com")
	require.NoError(t, err)

	_, err = c.run("", "login", "-e", "ana@example.com", "-p", "wrong-password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	out, err := c.run("", "login", "-e", "ana@example.com", "-p", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ana@example.com")
}

func TestLoginRequiresEmail(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "login", "-p", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email is required")
}

func TestShowRejectsDraftRef(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "show", "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a saved entry")
}

func TestNewValidatesBeforeSigningIn(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "new", "--title", "Empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title and content are required")

	_, err = c.run("text", "new", "--title", "Bad", "--mood", "angry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mood")
}

func TestConfigFileSuppliesServer(t *testing.T) {
	c := newCLI(t)
	cfg := filepath.Join(t.TempDir(), "journal.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("server: "+c.server+"\n"), 0o600))

	cmd := New()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader("secret123\n"))
	cmd.SetArgs([]string{"--config", cfg, "--state-dir", c.state, "register", "-e", "bo@example.com"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Welcome, bo@example.com")
}
