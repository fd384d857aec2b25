package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"journal/internal/domain"
)

func TestEntryRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	userID := "u1"

	now := time.Now()
	older, err := db.CreateEntry(ctx, userID, domain.EntryFields{Title: "Old", Content: "x", Mood: domain.MoodSad}, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	newer, err := db.CreateEntry(ctx, userID, domain.EntryFields{Title: "New", Content: "y", Mood: domain.MoodHappy}, now)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if older == "" || newer == "" || older == newer {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", older, newer)
	}

	entries, err := db.ListEntries(ctx, userID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != newer || entries[1].ID != older {
		t.Errorf("expected newest first, got %s, %s", entries[0].ID, entries[1].ID)
	}

	// Other user sees nothing
	other, _ := db.ListEntries(ctx, "u2")
	if len(other) != 0 {
		t.Error("expected 0 entries for other user")
	}
	if _, err := db.GetEntry(ctx, "u2", older); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound across namespaces, got %v", err)
	}

	// Update in place
	later := now.Add(time.Minute)
	if err := db.UpdateEntry(ctx, userID, older, domain.EntryFields{Title: "Old!", Content: "z", Mood: domain.MoodTired}, later); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	got, err := db.GetEntry(ctx, userID, older)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.Title != "Old!" || got.Mood != domain.MoodTired {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(now.Add(-time.Hour).UTC()) {
		t.Errorf("CreatedAt changed on update: %v", got.CreatedAt)
	}
	if !got.UpdatedAt.Equal(later.UTC()) {
		t.Errorf("UpdatedAt not bumped: %v", got.UpdatedAt)
	}

	if err := db.UpdateEntry(ctx, userID, "missing", domain.EntryFields{}, now); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateEntry_IDsNeverRepeat(t *testing.T) {
	db := New()
	ctx := context.Background()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := db.CreateEntry(ctx, "u1", domain.EntryFields{Title: "t", Content: "c"}, time.Now())
		if err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
		if seen[id] {
			t.Fatalf("id %s reused", id)
		}
		seen[id] = true
	}
}

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Create(ctx, "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if _, err := db.Create(ctx, "ana@example.com", "other"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	byEmail, _ := db.GetByEmail(ctx, "ana@example.com")
	byID, _ := db.GetByID(ctx, u.ID)
	if byEmail == nil || byID == nil || byEmail.ID != byID.ID {
		t.Fatal("lookups disagree")
	}
	if missing, err := db.GetByEmail(ctx, "nobody@example.com"); missing != nil || err != nil {
		t.Fatalf("expected (nil, nil), got %v, %v", missing, err)
	}
}

func TestSessionRepository(t *testing.T) {
	db := New()
	repo := db.NewSessionRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, "u1", "live", "ua", "ip", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, "u1", "dead", "ua", "ip", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, err := repo.GetByToken(ctx, "live")
	if err != nil || s == nil || s.UserID != "u1" || s.UserAgent != "ua" {
		t.Fatalf("GetByToken: %+v, %v", s, err)
	}

	if err := repo.DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "dead"); s != nil {
		t.Error("expected expired session to be swept")
	}

	if err := repo.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "live"); s != nil {
		t.Error("expected session to be deleted")
	}
}
