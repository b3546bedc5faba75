package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/progress"
	"github.com/stridebound/stridebound/internal/services/progression/storage"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]storage.Progress
	putErr  error
	puts    int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]storage.Progress)}
}

func (m *memStore) PutProgress(_ context.Context, record storage.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.records[record.UserID] = record
	return nil
}

func (m *memStore) GetProgress(_ context.Context, userID string) (storage.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[userID]
	if !ok {
		return storage.Progress{}, storage.ErrNotFound
	}
	return record, nil
}

type capturePublisher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *capturePublisher) PublishScore(_ context.Context, userID string, _ progress.Snapshot, _ time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, userID)
	return p.err
}

func TestSyncFromHealthPersistsSnapshot(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store, nil, nil)
	ctx := context.Background()

	snap, err := reg.SyncFromHealth(ctx, "user-1", 5000, 1.5)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if snap.TotalXP != 750 {
		t.Fatalf("total xp = %v, want 750", snap.TotalXP)
	}

	record, err := store.GetProgress(ctx, "user-1")
	if err != nil {
		t.Fatalf("get persisted record: %v", err)
	}
	if record.TotalXP != 750 || record.StepsToday != 5000 {
		t.Fatalf("persisted record = %+v", record)
	}
	if record.LastSyncAt.IsZero() {
		t.Fatal("last sync timestamp not recorded")
	}
}

func TestSyncFromHealthDerivesMultiplierFromPremium(t *testing.T) {
	store := newMemStore()
	store.records["user-1"] = storage.Progress{UserID: "user-1", Premium: true}
	reg := NewRegistry(store, nil, nil)

	snap, err := reg.SyncFromHealth(context.Background(), "user-1", 1000, 0)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	// 1000 × 0.1 × 1.5 premium multiplier.
	if snap.TotalXP != 150 {
		t.Fatalf("total xp = %v, want 150", snap.TotalXP)
	}
}

func TestSyncFromHealthHydratesExistingRecord(t *testing.T) {
	store := newMemStore()
	store.records["user-1"] = storage.Progress{
		UserID:     "user-1",
		TotalXP:    1000,
		StepsToday: 4000,
	}
	reg := NewRegistry(store, nil, nil)

	snap, err := reg.SyncFromHealth(context.Background(), "user-1", 5000, 1.0)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	// Only the 1000-step delta earns XP on top of the restored total.
	if snap.TotalXP != 1100 {
		t.Fatalf("total xp = %v, want 1100", snap.TotalXP)
	}
}

func TestSyncFromHealthRejectsInvalidInput(t *testing.T) {
	reg := NewRegistry(newMemStore(), nil, nil)
	ctx := context.Background()

	_, err := reg.SyncFromHealth(ctx, "  ", 100, 1.0)
	if !errors.Is(err, apperrors.New(apperrors.CodeProgressUserMissing, "")) {
		t.Fatalf("err = %v, want user missing code", err)
	}
	_, err = reg.SyncFromHealth(ctx, "user-1", -5, 1.0)
	if !errors.Is(err, apperrors.New(apperrors.CodeProgressNegativeSteps, "")) {
		t.Fatalf("err = %v, want negative steps code", err)
	}
}

func TestNoOpSyncDoesNotPersist(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store, nil, nil)
	ctx := context.Background()

	if _, err := reg.SyncFromHealth(ctx, "user-1", 5000, 1.0); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	putsAfterFirst := store.puts

	// Same reading again: zero delta, nothing to persist.
	if _, err := reg.SyncFromHealth(ctx, "user-1", 5000, 1.0); err != nil {
		t.Fatalf("repeat sync: %v", err)
	}
	if store.puts != putsAfterFirst {
		t.Fatalf("puts = %d, want unchanged %d", store.puts, putsAfterFirst)
	}
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("disk full")
	reg := NewRegistry(store, nil, nil)
	ctx := context.Background()

	snap, err := reg.SyncFromHealth(ctx, "user-1", 2000, 1.0)
	if err != nil {
		t.Fatalf("sync should not fail on persistence error: %v", err)
	}
	if snap.TotalXP != 200 {
		t.Fatalf("total xp = %v, want 200", snap.TotalXP)
	}

	// The in-memory tracker still carries the state forward.
	got, err := reg.Snapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got.TotalXP != 200 {
		t.Fatalf("snapshot xp = %v, want 200", got.TotalXP)
	}
}

func TestPublisherReceivesCommittedScores(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	reg := NewRegistry(store, pub, nil)
	ctx := context.Background()

	if _, err := reg.SyncFromHealth(ctx, "user-1", 3000, 1.0); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, err := reg.AddSteps(ctx, "user-1", 500); err != nil {
		t.Fatalf("add steps: %v", err)
	}

	if len(pub.calls) != 2 {
		t.Fatalf("publisher calls = %d, want 2", len(pub.calls))
	}
}

func TestPublisherFailureIsNonFatal(t *testing.T) {
	pub := &capturePublisher{err: errors.New("board down")}
	reg := NewRegistry(newMemStore(), pub, nil)

	if _, err := reg.SyncFromHealth(context.Background(), "user-1", 3000, 1.0); err != nil {
		t.Fatalf("sync should not fail on publish error: %v", err)
	}
}

func TestSetPremiumPersistsFlag(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store, nil, nil)
	ctx := context.Background()

	if _, err := reg.SetPremium(ctx, "user-1", true); err != nil {
		t.Fatalf("set premium: %v", err)
	}
	record, err := store.GetProgress(ctx, "user-1")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if !record.Premium {
		t.Fatal("premium flag not persisted")
	}
}

func TestResetDailyStatsPersists(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store, nil, nil)
	ctx := context.Background()

	if _, err := reg.SyncFromHealth(ctx, "user-1", 12000, 1.0); err != nil {
		t.Fatalf("sync: %v", err)
	}
	snap, err := reg.ResetDailyStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if snap.StepsToday != 0 || snap.DailyBonusGranted {
		t.Fatalf("snapshot after reset = %+v", snap)
	}

	record, err := store.GetProgress(ctx, "user-1")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.StepsToday != 0 {
		t.Fatalf("persisted steps = %d, want 0", record.StepsToday)
	}
	if record.TotalXP != 1700 {
		t.Fatalf("persisted xp = %v, want 1700", record.TotalXP)
	}
}

func TestConcurrentSyncsForOneUserSerialize(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store, nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(reading int) {
			defer wg.Done()
			_, _ = reg.SyncFromHealth(ctx, "user-1", reading, 1.0)
		}(1000 + i*100)
	}
	wg.Wait()

	snap, err := reg.Snapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	// The highest reading wins; serialized deltas can never double-count
	// beyond the XP for the highest absolute reading.
	if snap.StepsToday != 2900 {
		t.Fatalf("steps today = %d, want 2900", snap.StepsToday)
	}
	if snap.TotalXP != 290 {
		t.Fatalf("total xp = %v, want 290", snap.TotalXP)
	}
}
