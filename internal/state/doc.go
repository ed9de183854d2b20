// Package state shares the API status between the background poller and the
// UI.
//
// # Overview
//
// The poller goroutine writes with Update after every /api/status call; the
// UI reads a copy with Snapshot on its own refresh tick. Table data does not
// live here: each table owns its rows on the UI update loop.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ FetchStatus()  │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  sleep/backoff │            │  render header  │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	// Success case: replace status, reset failures
//	store.Update(status, nil)
//
//	// Error case: keep old status, record error, count the failure
//	store.Update(nil, err)
//
// A snapshot with two or more consecutive failures reports IsOffline, which
// the header shows as OFFLINE while the last known status stays visible.
//
// The zero Store is ready to use. Snapshot returns copies of the resource
// counts map and the error value so readers never share state with the
// writer.
package state
