package table

import (
	"maps"
	"slices"
	"strings"
)

// Direction is the ordering applied to a sortable column.
type Direction int

const (
	SortNone Direction = iota
	SortAscending
	SortDescending
)

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return ""
	}
}

// Next cycles none → ascending → descending → none.
func (d Direction) Next() Direction {
	switch d {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// Sort names the server-side ordering. The zero value means unsorted.
type Sort struct {
	Column    string
	Direction Direction
}

// IsZero reports whether no ordering is requested.
func (s Sort) IsZero() bool {
	return strings.TrimSpace(s.Column) == "" || s.Direction == SortNone
}

// State is the complete user-editable query of one table.
type State struct {
	PageIndex int // 0-based
	PageSize  int
	Search    string
	Sort      Sort
	Filters   map[string]string
}

// Clone returns a copy that shares no maps with s.
func (s State) Clone() State {
	out := s
	if len(s.Filters) > 0 {
		out.Filters = maps.Clone(s.Filters)
	} else {
		out.Filters = nil
	}
	return out
}

// Equal compares two states field by field, treating nil and empty filters alike.
func (s State) Equal(o State) bool {
	if s.PageIndex != o.PageIndex || s.PageSize != o.PageSize || s.Search != o.Search {
		return false
	}
	if s.Sort.IsZero() != o.Sort.IsZero() {
		return false
	}
	if !s.Sort.IsZero() && s.Sort != o.Sort {
		return false
	}
	return maps.Equal(s.Filters, o.Filters)
}

// Options bound the values a State may hold.
type Options struct {
	PageSizes       []int
	DefaultPageSize int
}

// Default page sizes offered when a screen configures none.
var (
	DefaultPageSizes = []int{10, 20, 30, 40, 50}
)

const defaultPageSize = 10

func (o Options) normalized() Options {
	out := Options{DefaultPageSize: o.DefaultPageSize}
	for _, size := range o.PageSizes {
		if size > 0 && !slices.Contains(out.PageSizes, size) {
			out.PageSizes = append(out.PageSizes, size)
		}
	}
	if len(out.PageSizes) == 0 {
		out.PageSizes = slices.Clone(DefaultPageSizes)
	}
	if !slices.Contains(out.PageSizes, out.DefaultPageSize) {
		if slices.Contains(out.PageSizes, defaultPageSize) {
			out.DefaultPageSize = defaultPageSize
		} else {
			out.DefaultPageSize = out.PageSizes[0]
		}
	}
	return out
}

// Allowed reports whether size is one of the configured page sizes.
func (o Options) Allowed(size int) bool {
	return slices.Contains(o.PageSizes, size)
}

// TotalPages returns ceil(total/pageSize); zero records yield zero pages.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// LastPageIndex is the highest valid 0-based page for totalPages.
func LastPageIndex(totalPages int) int {
	return max(0, totalPages-1)
}
