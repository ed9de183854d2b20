// Package app is the composition root of the healthdesk console.
//
// Run wires the pieces together:
//
//  1. config.Load reads ~/.config/healthdesk/config.toml (defaults if absent)
//  2. logging.New opens the log file; the TUI owns the terminal
//  3. api.NewClient talks to the records API; api.CachedSource sits in front
//     of it for page requests
//  4. a state.Store holds the latest /api/status result
//  5. StartPoller refreshes the store in the background
//  6. ui.Run blocks until the user quits or the context is cancelled
//
// # Polling Behavior
//
// The poller asks /api/status every poll interval (5 seconds by default).
// After consecutive failures the wait doubles, capped at 30 seconds, and
// resets on the first success. The store keeps the last good status while
// failing so the header can show stale data with an OFFLINE badge.
//
// Table data is not polled. Each screen fetches when its state changes or
// when the user refreshes.
package app
