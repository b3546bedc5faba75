package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stridebound/stridebound/internal/services/progression/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "progression.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestPutAndGetProgress(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	record := storage.Progress{
		UserID:     "user-1",
		TotalXP:    1500.5,
		StepsToday: 10000,
		Premium:    true,
		LastSyncAt: now,
		UpdatedAt:  now,
	}
	if err := store.PutProgress(ctx, record); err != nil {
		t.Fatalf("put progress: %v", err)
	}

	got, err := store.GetProgress(ctx, "user-1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if got.TotalXP != 1500.5 {
		t.Fatalf("total xp = %v, want 1500.5", got.TotalXP)
	}
	if got.StepsToday != 10000 {
		t.Fatalf("steps today = %d, want 10000", got.StepsToday)
	}
	if !got.Premium {
		t.Fatal("premium flag lost")
	}
	if !got.LastSyncAt.Equal(now) {
		t.Fatalf("last sync = %v, want %v", got.LastSyncAt, now)
	}
}

func TestPutProgressUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := storage.Progress{UserID: "user-1", TotalXP: 100, StepsToday: 1000}
	if err := store.PutProgress(ctx, first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	second := storage.Progress{UserID: "user-1", TotalXP: 250, StepsToday: 2500}
	if err := store.PutProgress(ctx, second); err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, err := store.GetProgress(ctx, "user-1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if got.TotalXP != 250 || got.StepsToday != 2500 {
		t.Fatalf("record = %+v, want upserted values", got)
	}
}

func TestGetProgressMissingReturnsNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetProgress(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPutProgressRejectsInvalidValues(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutProgress(ctx, storage.Progress{UserID: " "}); err == nil {
		t.Fatal("expected error for blank user id")
	}
	if err := store.PutProgress(ctx, storage.Progress{UserID: "u", TotalXP: -1}); err == nil {
		t.Fatal("expected error for negative xp")
	}
	if err := store.PutProgress(ctx, storage.Progress{UserID: "u", StepsToday: -1}); err == nil {
		t.Fatal("expected error for negative steps")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
