// Package apiclient talks to the journald HTTP API on behalf of the
// terminal client.
package apiclient

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// userAgent is sent on every request; journald binds sessions to it.
const userAgent = "journal-cli/1"

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Client is a resty-based journald client holding the current session token.
type Client struct {
	http   *resty.Client
	tokens TokenStore

	mu    sync.RWMutex
	token string
}

// New creates a Client for the server at baseURL.
func New(baseURL string, tokens TokenStore) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent).
		SetTimeout(15 * time.Second)
	return &Client{http: c, tokens: tokens}
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if t := c.currentToken(); t != "" {
		r.SetAuthToken(t)
	}
	return r
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeAPIError(resp *resty.Response) apiError {
	var e apiError
	_ = json.Unmarshal(resp.Body(), &e)
	if e.Error == "" {
		e.Error = resp.Status()
	}
	return e
}
