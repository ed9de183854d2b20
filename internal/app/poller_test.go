package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeStatus struct {
	err       error
	calls     int
	resources map[string]int
}

func (f *fakeStatus) FetchStatus(ctx context.Context) (*api.StatusResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &api.StatusResponse{Service: "records", Version: "1.0.0", Resources: f.resources}, nil
}

type countingCache struct {
	purges int
}

func (c *countingCache) Invalidate() { c.purges++ }

func TestRefresh_RecordsFailuresAndRecovery(t *testing.T) {
	var store state.Store
	fetcher := &fakeStatus{err: errors.New("connection refused")}

	if err := refresh(context.Background(), &store, fetcher, nil, zerolog.Nop()); err == nil {
		t.Fatal("refresh returned nil error, want failure")
	}
	_ = refresh(context.Background(), &store, fetcher, nil, zerolog.Nop())
	if !store.Snapshot().IsOffline() {
		t.Fatal("store should be offline after two failures")
	}
	if got := calculateBackoff(store.Failures(), time.Second); got != 4*time.Second {
		t.Fatalf("backoff after two failures = %v, want 4s", got)
	}

	fetcher.err = nil
	if err := refresh(context.Background(), &store, fetcher, nil, zerolog.Nop()); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	snap := store.Snapshot()
	if snap.IsOffline() || snap.Status.Version != "1.0.0" {
		t.Fatalf("snapshot after recovery = %#v", snap)
	}
}

type countingStatus struct {
	calls atomic.Int32
}

func (c *countingStatus) FetchStatus(ctx context.Context) (*api.StatusResponse, error) {
	c.calls.Add(1)
	return &api.StatusResponse{Service: "records", Version: "1.0.0"}, nil
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var store state.Store
	fetcher := &countingStatus{}

	StartPoller(ctx, &store, fetcher, nil, 5*time.Millisecond, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for fetcher.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 2", fetcher.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !store.Snapshot().HasStatus {
		t.Fatal("store has no status after polling")
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	settled := fetcher.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := fetcher.calls.Load(); got != settled {
		t.Fatalf("poller kept running after cancel: %d -> %d calls", settled, got)
	}
}

func TestRefresh_InvalidatesCacheWhenCountsChange(t *testing.T) {
	var store state.Store
	cache := &countingCache{}
	fetcher := &fakeStatus{resources: map[string]int{"students": 240}}

	// First status has nothing to compare against.
	if err := refresh(context.Background(), &store, fetcher, cache, zerolog.Nop()); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	_ = refresh(context.Background(), &store, fetcher, cache, zerolog.Nop())
	if cache.purges != 0 {
		t.Fatalf("purges with unchanged counts = %d, want 0", cache.purges)
	}

	fetcher.resources = map[string]int{"students": 241}
	_ = refresh(context.Background(), &store, fetcher, cache, zerolog.Nop())
	if cache.purges != 1 {
		t.Fatalf("purges after count change = %d, want 1", cache.purges)
	}

	fetcher.err = errors.New("connection refused")
	_ = refresh(context.Background(), &store, fetcher, cache, zerolog.Nop())
	if cache.purges != 1 {
		t.Fatalf("purges after failed poll = %d, want 1", cache.purges)
	}
}
