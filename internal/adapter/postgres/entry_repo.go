package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"journal/internal/domain"

	"github.com/google/uuid"
)

var _ domain.EntryRepository = (*DB)(nil)

// ListEntries returns the user's entries ordered by creation time, newest first.
func (d *DB) ListEntries(ctx context.Context, userID string) ([]domain.Entry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, title, content, mood, created_at, updated_at FROM entries WHERE user_id=$1 ORDER BY created_at DESC;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Entry, 0)
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.Mood, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEntry returns one entry of the user.
func (d *DB) GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	var e domain.Entry
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, title, content, mood, created_at, updated_at FROM entries WHERE user_id=$1 AND id=$2;", userID, id,
	).Scan(&e.ID, &e.Title, &e.Content, &e.Mood, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry inserts a new entry under a fresh id.
func (d *DB) CreateEntry(ctx context.Context, userID string, f domain.EntryFields, now time.Time) (string, error) {
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO entries(user_id, id, title, content, mood, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $6);",
		userID, id, f.Title, f.Content, string(f.Mood), now.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateEntry overwrites title, content and mood of an existing entry.
func (d *DB) UpdateEntry(ctx context.Context, userID, id string, f domain.EntryFields, now time.Time) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE entries SET title=$3, content=$4, mood=$5, updated_at=$6 WHERE user_id=$1 AND id=$2;",
		userID, id, f.Title, f.Content, string(f.Mood), now.UTC(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
