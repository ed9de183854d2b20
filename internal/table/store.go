package table

import "strings"

// Phase is the store's position in its fetch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePendingFetch
)

func (p Phase) String() string {
	if p == PhasePendingFetch {
		return "pending"
	}
	return "idle"
}

// Store owns the State of a single table. It is not safe for concurrent use;
// all calls happen on the UI update loop.
type Store struct {
	opts  Options
	state State
	phase Phase
}

// NewStore returns a store positioned on the first page at the default size.
func NewStore(opts Options) *Store {
	opts = opts.normalized()
	return &Store{
		opts:  opts,
		state: State{PageSize: opts.DefaultPageSize},
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

// Options returns the normalised options.
func (s *Store) Options() Options {
	return s.opts
}

// Phase reports whether a fetch for the current state is outstanding.
func (s *Store) Phase() Phase {
	return s.phase
}

// SetPage moves to index. Negative input is clamped to 0; the upper bound is
// applied later by ClampPage once the total is known.
func (s *Store) SetPage(index int) bool {
	return s.apply(func(st *State) {
		st.PageIndex = max(0, index)
	})
}

// SetPageSize switches to size and returns to the first page. Sizes outside
// the allowed set are ignored.
func (s *Store) SetPageSize(size int) bool {
	if !s.opts.Allowed(size) {
		return false
	}
	return s.apply(func(st *State) {
		st.PageSize = size
		st.PageIndex = 0
	})
}

// SetSearch applies a settled search term and returns to the first page.
func (s *Store) SetSearch(term string) bool {
	return s.apply(func(st *State) {
		st.Search = strings.TrimSpace(term)
		st.PageIndex = 0
	})
}

// SetSort orders by column; SortNone (or an empty column) clears ordering.
func (s *Store) SetSort(column string, dir Direction) bool {
	return s.apply(func(st *State) {
		column = strings.TrimSpace(column)
		if column == "" || dir == SortNone {
			st.Sort = Sort{}
			return
		}
		st.Sort = Sort{Column: column, Direction: dir}
	})
}

// SetFilter sets or, with an empty value, removes a filter and returns to the
// first page.
func (s *Store) SetFilter(key, value string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	return s.apply(func(st *State) {
		value = strings.TrimSpace(value)
		if value == "" {
			delete(st.Filters, key)
		} else {
			if st.Filters == nil {
				st.Filters = make(map[string]string)
			}
			st.Filters[key] = value
		}
		st.PageIndex = 0
	})
}

// ClampPage pulls PageIndex back into [0, totalPages-1]. It reports whether
// the index moved, in which case a corrective fetch is pending.
func (s *Store) ClampPage(totalPages int) bool {
	last := LastPageIndex(totalPages)
	if s.state.PageIndex <= last {
		return false
	}
	s.state.PageIndex = last
	s.phase = PhasePendingFetch
	return true
}

// Hydrate replaces the state wholesale, as read from a location. Values are
// normalised against the options; no setter side effects apply.
func (s *Store) Hydrate(st State) bool {
	next := st.Clone()
	next.PageIndex = max(0, next.PageIndex)
	if !s.opts.Allowed(next.PageSize) {
		next.PageSize = s.opts.DefaultPageSize
	}
	next.Search = strings.TrimSpace(next.Search)
	if next.Sort.IsZero() {
		next.Sort = Sort{}
	}
	if len(next.Filters) == 0 {
		next.Filters = nil
	}
	if next.Equal(s.state) {
		return false
	}
	s.state = next
	s.phase = PhasePendingFetch
	return true
}

// Settled marks the outstanding fetch as complete.
func (s *Store) Settled() {
	s.phase = PhaseIdle
}

// MarkPending records that a fetch was issued without a state change, as for
// a mount or a manual refresh.
func (s *Store) MarkPending() {
	s.phase = PhasePendingFetch
}

func (s *Store) apply(mutate func(*State)) bool {
	next := s.state.Clone()
	mutate(&next)
	if len(next.Filters) == 0 {
		next.Filters = nil
	}
	changed := !next.Equal(s.state)
	s.state = next
	if changed {
		s.phase = PhasePendingFetch
	}
	return changed
}
