package table

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Location query keys understood by the codec. Filter keys declared by a
// screen are recognised as well; anything else passes through untouched.
const (
	KeyPage   = "page"
	KeyLimit  = "limit"
	KeySearch = "search"
	KeySort   = "sort"
)

// Codec translates between a location query string and a State.
type Codec struct {
	opts       Options
	filterKeys []string
	sortKeys   []string
	sortLimit  bool
}

// Decoded is the result of reading a query string.
type Decoded struct {
	State       State
	Passthrough url.Values
	// Problems lists the keys that were replaced by defaults. They are for
	// diagnostics only and never reach the user.
	Problems []error
}

// NewCodec builds a codec for the given page size options and filter keys.
func NewCodec(opts Options, filterKeys ...string) Codec {
	keys := make([]string, 0, len(filterKeys))
	for _, k := range filterKeys {
		k = strings.TrimSpace(k)
		if k != "" && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return Codec{opts: opts.normalized(), filterKeys: keys}
}

// Sortable limits decoded sorts to columns. Any other column decodes as
// unsorted and is reported as a problem.
func (c Codec) Sortable(columns ...string) Codec {
	c.sortKeys = slices.Clone(columns)
	c.sortLimit = true
	return c
}

// Options returns the normalised options the codec validates against.
func (c Codec) Options() Options {
	return c.opts
}

// Decode parses raw (with or without a leading '?'). It never fails: missing
// or malformed fields fall back to page 1 and the default page size.
func (c Codec) Decode(raw string) Decoded {
	out := Decoded{
		State:       State{PageIndex: 0, PageSize: c.opts.DefaultPageSize},
		Passthrough: url.Values{},
	}

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	values, err := url.ParseQuery(raw)
	if err != nil {
		// ParseQuery keeps every pair it could read; the rest is reported.
		out.Problems = append(out.Problems, &MalformedFieldError{Key: "query", Value: raw})
	}

	for key, vals := range values {
		if c.recognised(key) {
			continue
		}
		out.Passthrough[key] = slices.Clone(vals)
	}

	if v, ok := first(values, KeyPage); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			out.State.PageIndex = n - 1
		} else {
			out.Problems = append(out.Problems, &MalformedFieldError{Key: KeyPage, Value: v})
		}
	}

	if v, ok := first(values, KeyLimit); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 && c.opts.Allowed(n) {
			out.State.PageSize = n
		} else {
			out.Problems = append(out.Problems, &MalformedFieldError{Key: KeyLimit, Value: v})
		}
	}

	if v, ok := first(values, KeySearch); ok {
		out.State.Search = strings.TrimSpace(v)
	}

	if v, ok := first(values, KeySort); ok && strings.TrimSpace(v) != "" {
		if sort, ok := parseSort(v); ok && c.sortAllowed(sort.Column) {
			out.State.Sort = sort
		} else {
			out.Problems = append(out.Problems, &MalformedFieldError{Key: KeySort, Value: v})
		}
	}

	for _, key := range c.filterKeys {
		v, ok := first(values, key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if out.State.Filters == nil {
			out.State.Filters = make(map[string]string)
		}
		out.State.Filters[key] = strings.TrimSpace(v)
	}

	return out
}

// Encode renders state as a query string (without '?'). page and limit are
// always present; passthrough keys are carried over unchanged.
func (c Codec) Encode(state State, passthrough url.Values) string {
	values := url.Values{}
	for key, vals := range passthrough {
		if c.recognised(key) {
			continue
		}
		values[key] = slices.Clone(vals)
	}

	values.Set(KeyPage, strconv.Itoa(max(0, state.PageIndex)+1))
	size := state.PageSize
	if size <= 0 {
		size = c.opts.DefaultPageSize
	}
	values.Set(KeyLimit, strconv.Itoa(size))

	if search := strings.TrimSpace(state.Search); search != "" {
		values.Set(KeySearch, search)
	}
	if !state.Sort.IsZero() {
		values.Set(KeySort, formatSort(state.Sort))
	}
	for key, v := range state.Filters {
		if strings.TrimSpace(v) == "" {
			continue
		}
		values.Set(key, v)
	}
	return values.Encode()
}

func (c Codec) recognised(key string) bool {
	switch key {
	case KeyPage, KeyLimit, KeySearch, KeySort:
		return true
	}
	return slices.Contains(c.filterKeys, key)
}

func (c Codec) sortAllowed(column string) bool {
	return !c.sortLimit || slices.Contains(c.sortKeys, column)
}

func first(values url.Values, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// parseSort accepts "column", "column:asc" and "column:desc".
func parseSort(v string) (Sort, bool) {
	column, dir, hasDir := strings.Cut(strings.TrimSpace(v), ":")
	column = strings.TrimSpace(column)
	if column == "" {
		return Sort{}, false
	}
	if !hasDir {
		return Sort{Column: column, Direction: SortAscending}, true
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc", "":
		return Sort{Column: column, Direction: SortAscending}, true
	case "desc":
		return Sort{Column: column, Direction: SortDescending}, true
	default:
		return Sort{}, false
	}
}

func formatSort(s Sort) string {
	if s.Direction == SortDescending {
		return s.Column + ":desc"
	}
	return s.Column
}
