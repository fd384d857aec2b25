package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"journal/internal/app"
	"journal/internal/domain"

	"github.com/go-resty/resty/v2"
)

var _ domain.Journal = (*Client)(nil)

// List fetches the signed-in user's entries, newest first. The server
// derives the namespace from the session, so userID is not sent.
func (c *Client) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	var out struct {
		Items []domain.Entry `json:"items"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/entries")
	if err != nil {
		return nil, &domain.FetchError{Op: "list", Err: err}
	}
	if resp.IsError() {
		return nil, &domain.FetchError{Op: "list", Err: responseError(resp)}
	}
	if out.Items == nil {
		out.Items = []domain.Entry{}
	}
	return out.Items, nil
}

// Get fetches one entry; a missing entry is domain.ErrNotFound.
func (c *Client) Get(ctx context.Context, userID, id string) (*domain.Entry, error) {
	var out domain.Entry
	resp, err := c.request(ctx).
		SetResult(&out).
		SetPathParam("id", id).
		Get("/api/entries/{id}")
	if err != nil {
		return nil, &domain.FetchError{Op: "get", Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.IsError() {
		return nil, &domain.FetchError{Op: "get", Err: responseError(resp)}
	}
	return &out, nil
}

// Save creates the entry for a draft and returns the id the server
// assigned, or overwrites a saved entry and returns its id.
func (c *Client) Save(ctx context.Context, userID string, ref domain.EntryRef, f domain.EntryFields) (string, error) {
	f, err := f.Validate()
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	req := c.request(ctx).SetBody(&f).SetResult(&out)

	var resp *resty.Response
	if id, saved := ref.ID(); saved {
		resp, err = req.SetPathParam("id", id).Put("/api/entries/{id}")
	} else {
		resp, err = req.Post("/api/entries")
	}
	if err != nil {
		return "", &domain.SaveError{Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", domain.ErrNotFound
	}
	if resp.IsError() {
		return "", &domain.SaveError{Err: responseError(resp)}
	}
	if out.ID == "" {
		return "", &domain.SaveError{Err: fmt.Errorf("server returned no id")}
	}
	return out.ID, nil
}

// Daily fetches per-day writing activity for the last days days.
func (c *Client) Daily(ctx context.Context, days int) ([]app.DayPoint, error) {
	var out struct {
		Items []app.DayPoint `json:"items"`
	}
	resp, err := c.request(ctx).
		SetResult(&out).
		SetQueryParam("days", strconv.Itoa(days)).
		Get("/api/entries/daily")
	if err != nil {
		return nil, &domain.FetchError{Op: "daily", Err: err}
	}
	if resp.IsError() {
		return nil, &domain.FetchError{Op: "daily", Err: responseError(resp)}
	}
	return out.Items, nil
}

func responseError(resp *resty.Response) error {
	e := decodeAPIError(resp)
	if resp.StatusCode() == http.StatusUnauthorized {
		return domain.NewAuthError(domain.AuthUnauthenticated, nil)
	}
	return fmt.Errorf("%d %s: %s", resp.StatusCode(), e.Code, e.Error)
}
