package app

import (
	"context"
	"errors"
	"time"

	"journal/internal/domain"
)

// JournalService encapsulates the per-user entry use cases.
type JournalService struct {
	repo domain.EntryRepository
	now  func() time.Time
}

var _ domain.Journal = (*JournalService)(nil)

// NewJournalService creates a JournalService backed by the given repository.
func NewJournalService(repo domain.EntryRepository) *JournalService {
	return &JournalService{repo: repo, now: time.Now}
}

// List returns the user's entries, newest first.
func (s *JournalService) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, &domain.FetchError{Op: "list", Err: err}
	}
	return entries, nil
}

// Overview returns the entries together with their stats at fetch time.
func (s *JournalService) Overview(ctx context.Context, userID string) ([]domain.Entry, domain.Stats, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	return entries, domain.ComputeStats(entries, s.now()), nil
}

// Get returns one entry or domain.ErrNotFound.
func (s *JournalService) Get(ctx context.Context, userID, id string) (*domain.Entry, error) {
	e, err := s.repo.GetEntry(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.FetchError{Op: "get", Err: err}
	}
	return e, nil
}

// Save creates the entry when ref is a draft and returns the new id, or
// overwrites the saved entry in place and returns its unchanged id.
func (s *JournalService) Save(ctx context.Context, userID string, ref domain.EntryRef, f domain.EntryFields) (string, error) {
	f, err := f.Validate()
	if err != nil {
		return "", err
	}
	now := s.now()

	id, saved := ref.ID()
	if !saved {
		id, err = s.repo.CreateEntry(ctx, userID, f, now)
		if err != nil {
			return "", &domain.SaveError{Err: err}
		}
		return id, nil
	}

	err = s.repo.UpdateEntry(ctx, userID, id, f, now)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", &domain.SaveError{Err: err}
	}
	return id, nil
}
