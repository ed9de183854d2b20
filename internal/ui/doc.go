// Package ui is the healthdesk console: a Bubble Tea program that shows one
// record screen at a time under a status header.
//
// # Layout
//
//   - Header: API state (ONLINE, OFFLINE, CONNECTING), API version, the
//     record count for the open screen and the last status poll.
//   - Tab strip: the screens with their hotkeys, then the current location
//     ("students?limit=20&page=3") and back/forward markers.
//   - Command bar: short key hints, or the location prompt while open.
//   - Body: the active table.Controller view.
//
// # Locations
//
// Every table writes its state to a nav.History as "path?query". The model
// passes the history to each controller as its Navigator, so explicit page,
// sort and filter changes become entries while page size and search only
// rewrite the current one. Back and forward ([ and ]) re-hydrate the table
// from the stored query without writing to the history. Switching screens
// tears down the old controller, which drops its in-flight result.
//
// # Key Bindings
//
//   - 1-6: switch screen
//   - ":" open a location, for example "medications?status=active"
//   - "[" / "]": back / forward
//   - T: cycle theme (saved to prefs)
//   - L: diagnostics overlay (tail of the log file)
//   - ?: help, q or Ctrl+C: quit
//
// Paging, sorting, filtering and search keys belong to the table package and
// are listed in the help overlay.
//
// # Preferences
//
// The theme and the last location are written to prefs on theme change and
// on exit, so the next start reopens the same view.
package ui
