package firestore

import (
	"context"
	"time"

	"journal/internal/domain"

	"cloud.google.com/go/firestore"
)

var _ domain.EntryRepository = (*DB)(nil)

// ListEntries returns the user's entries ordered by createdAt, newest first.
func (d *DB) ListEntries(ctx context.Context, userID string) ([]domain.Entry, error) {
	docs, err := d.entries(userID).OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entry, 0, len(docs))
	for _, doc := range docs {
		var e domain.Entry
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		e.ID = doc.Ref.ID
		out = append(out, e)
	}
	return out, nil
}

// GetEntry returns one entry of the user.
func (d *DB) GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	doc, err := d.entries(userID).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var e domain.Entry
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}
	e.ID = doc.Ref.ID
	return &e, nil
}

// CreateEntry adds a document under an auto-generated id.
func (d *DB) CreateEntry(ctx context.Context, userID string, f domain.EntryFields, now time.Time) (string, error) {
	ref := d.entries(userID).NewDoc()
	_, err := ref.Create(ctx, domain.Entry{
		Title:     f.Title,
		Content:   f.Content,
		Mood:      f.Mood,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// UpdateEntry patches the editable fields; createdAt is left alone.
func (d *DB) UpdateEntry(ctx context.Context, userID, id string, f domain.EntryFields, now time.Time) error {
	_, err := d.entries(userID).Doc(id).Update(ctx, []firestore.Update{
		{Path: "title", Value: f.Title},
		{Path: "content", Value: f.Content},
		{Path: "mood", Value: string(f.Mood)},
		{Path: "updatedAt", Value: now.UTC()},
	})
	if isNotFound(err) {
		return domain.ErrNotFound
	}
	return err
}
