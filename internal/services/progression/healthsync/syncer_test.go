package healthsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/progress"
)

type stubSource struct {
	mu    sync.Mutex
	steps int
	err   error
	block chan struct{}
	reads int
}

func (s *stubSource) StepsToday(_ context.Context) (int, error) {
	s.mu.Lock()
	s.reads++
	block := s.block
	steps, err := s.steps, s.err
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return steps, err
}

type stubSync struct {
	mu       sync.Mutex
	snapshot progress.Snapshot
	syncs    []int
	mults    []float64
}

func (s *stubSync) SyncFromHealth(_ context.Context, _ string, raw int, mult float64) (progress.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncs = append(s.syncs, raw)
	s.mults = append(s.mults, mult)
	if raw > s.snapshot.StepsToday {
		s.snapshot.StepsToday = raw
	}
	return s.snapshot, nil
}

func (s *stubSync) Snapshot(_ context.Context, _ string) (progress.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, nil
}

func TestSyncForwardsSourceReading(t *testing.T) {
	source := &stubSource{steps: 7500}
	ps := &stubSync{}
	syncer := NewSyncer(source, ps, "user-1", 0, nil)

	snap, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if snap.StepsToday != 7500 {
		t.Fatalf("steps today = %d, want 7500", snap.StepsToday)
	}
	if len(ps.syncs) != 1 || ps.syncs[0] != 7500 {
		t.Fatalf("forwarded syncs = %v, want [7500]", ps.syncs)
	}
	// Multiplier selection is delegated to the session layer.
	if ps.mults[0] != 0 {
		t.Fatalf("multiplier = %v, want 0", ps.mults[0])
	}
}

func TestSyncDropsConcurrentTrigger(t *testing.T) {
	release := make(chan struct{})
	source := &stubSource{steps: 1000, block: release}
	ps := &stubSync{}
	syncer := NewSyncer(source, ps, "user-1", 0, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := syncer.Sync(context.Background())
		firstDone <- err
	}()

	// Wait for the first sync to reach the blocking source read.
	deadline := time.After(2 * time.Second)
	for {
		source.mu.Lock()
		started := source.reads > 0
		source.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first sync never started")
		case <-time.After(time.Millisecond):
		}
	}

	_, err := syncer.Sync(context.Background())
	if !errors.Is(err, apperrors.New(apperrors.CodeProgressSyncInFlight, "")) {
		t.Fatalf("concurrent sync err = %v, want in-flight code", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if len(ps.syncs) != 1 {
		t.Fatalf("syncs applied = %d, want 1", len(ps.syncs))
	}
}

func TestSyncThrottledReturnsCurrentSnapshot(t *testing.T) {
	source := &stubSource{steps: 4000}
	ps := &stubSync{}
	syncer := NewSyncer(source, ps, "user-1", time.Hour, nil)
	ctx := context.Background()

	if _, err := syncer.Sync(ctx); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	snap, err := syncer.Sync(ctx)
	if err != nil {
		t.Fatalf("throttled sync: %v", err)
	}
	if snap.StepsToday != 4000 {
		t.Fatalf("throttled snapshot steps = %d, want 4000", snap.StepsToday)
	}
	source.mu.Lock()
	reads := source.reads
	source.mu.Unlock()
	if reads != 1 {
		t.Fatalf("source reads = %d, want 1", reads)
	}
}

func TestSyncReadFailureBecomesZeroSteps(t *testing.T) {
	source := &stubSource{err: errors.New("healthkit unavailable")}
	ps := &stubSync{snapshot: progress.Snapshot{StepsToday: 6000}}
	syncer := NewSyncer(source, ps, "user-1", 0, nil)

	snap, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(ps.syncs) != 1 || ps.syncs[0] != 0 {
		t.Fatalf("forwarded syncs = %v, want [0]", ps.syncs)
	}
	// A zero reading is a backward delta and leaves progress untouched.
	if snap.StepsToday != 6000 {
		t.Fatalf("steps today = %d, want 6000", snap.StepsToday)
	}
}
