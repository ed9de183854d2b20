// Package table implements server-paginated tables whose paging, sorting,
// filtering and search state lives in the location query.
//
// # Components
//
//   - Codec: query string <-> State. Malformed page, limit or sort values
//     fall back to defaults (page 1, limit 10) and are reported as
//     MalformedFieldError; unknown keys are carried through untouched.
//   - Store: the canonical State plus a phase (idle, pending fetch).
//     Changing page size, search or a filter resets to the first page.
//   - Debouncer: collapses rapid search input into one SettleMsg per quiet
//     window, carrying only the latest value.
//   - Coordinator: hands out request tokens and applies only the result of
//     the latest request. Older results are discarded; failures keep the
//     last rows and record a FetchError.
//   - Render: header, skeleton rows while loading, "No results", the error
//     banner, and the paginator footer. Rows are shown in server order.
//   - Controller: wires the above to a Navigator and a FetchFunc for one
//     screen and exposes keyboard handling for Bubble Tea.
//
// # Location writes
//
// Explicit page, sort and filter changes push a history entry. Page size,
// settled search and clamp corrections replace the current one. Navigate
// (back/forward) hydrates from a location without writing it.
//
// All Controller methods run on the Bubble Tea update loop. Fetches run as
// tea.Cmds and come back as FetchedMsg.
package table
