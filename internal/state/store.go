package state

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/five82/healthdesk/internal/api"
)

// Snapshot represents the latest API status available to the UI.
type Snapshot struct {
	Status              api.StatusResponse
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous status
// is kept but the error is recorded for visibility.
func (s *Store) Update(status *api.StatusResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if status != nil {
		s.snapshot.Status = cloneStatus(*status)
		s.snapshot.HasStatus = true
	} else {
		s.snapshot.HasStatus = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Failures returns the current consecutive failure count.
func (s *Store) Failures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.ConsecutiveFailures
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Status = cloneStatus(s.snapshot.Status)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStatus(st api.StatusResponse) api.StatusResponse {
	st.Resources = maps.Clone(st.Resources)
	return st
}
