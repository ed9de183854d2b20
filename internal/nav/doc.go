// Package nav keeps the console's address bar and its back/forward history.
//
// A Location is the in-app counterpart of a URL: the path names a screen and
// the query holds that screen's table state, e.g.
//
//	students?limit=20&page=4&search=nguyen
//
// History follows browser semantics. Push records a new entry and drops the
// forward entries; Replace rewrites the current entry in place. Tables push
// for explicit page, sort and filter changes and replace for page size
// changes, settled searches and page clamping, so back/forward steps through
// the pages a user actually chose.
package nav
