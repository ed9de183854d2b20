package nav

import (
	"strings"
)

// Location is an in-app address: a screen path plus its query string.
type Location struct {
	Path     string
	RawQuery string
}

// String renders the location as "path?query".
func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// IsZero reports whether the location is empty.
func (l Location) IsZero() bool {
	return l.Path == "" && l.RawQuery == ""
}

// ParseLocation splits "path?query". Leading slashes and surrounding spaces
// are dropped so "/students?page=2" and "students?page=2" are the same.
func ParseLocation(s string) Location {
	s = strings.TrimSpace(s)
	path, query, _ := strings.Cut(s, "?")
	path = strings.Trim(strings.TrimSpace(path), "/")
	return Location{Path: path, RawQuery: strings.TrimSpace(query)}
}

// DefaultHistoryLimit caps the entries kept behind the cursor.
const DefaultHistoryLimit = 100

// History is a browser-style back/forward list. It is used from the UI loop
// only and is not safe for concurrent use.
type History struct {
	entries []Location
	cursor  int
	limit   int
}

// NewHistory starts a history at loc.
func NewHistory(loc Location, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{entries: []Location{loc}, limit: limit}
}

// Current returns the location under the cursor.
func (h *History) Current() Location {
	if len(h.entries) == 0 {
		return Location{}
	}
	return h.entries[h.cursor]
}

// Push adds loc after the cursor and drops any forward entries. Pushing the
// current location is a no-op.
func (h *History) Push(path, rawQuery string) {
	loc := Location{Path: path, RawQuery: rawQuery}
	if len(h.entries) > 0 && h.Current() == loc {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], loc)
	h.cursor = len(h.entries) - 1
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
		h.cursor -= over
	}
}

// Replace rewrites the current entry.
func (h *History) Replace(path, rawQuery string) {
	loc := Location{Path: path, RawQuery: rawQuery}
	if len(h.entries) == 0 {
		h.entries = []Location{loc}
		h.cursor = 0
		return
	}
	h.entries[h.cursor] = loc
}

// Back moves the cursor one entry back.
func (h *History) Back() (Location, bool) {
	if h.cursor == 0 {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Forward moves the cursor one entry forward.
func (h *History) Forward() (Location, bool) {
	if h.cursor >= len(h.entries)-1 {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// CanBack reports whether Back would move.
func (h *History) CanBack() bool { return h.cursor > 0 }

// CanForward reports whether Forward would move.
func (h *History) CanForward() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }
