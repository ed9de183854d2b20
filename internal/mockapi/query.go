package mockapi

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// listQuery is a parsed /api/{resource} request.
type listQuery struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Desc    bool
	Filters map[string]string
}

func parseListQuery(values url.Values, filterable []string) listQuery {
	q := listQuery{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n >= 1 {
		q.Limit = min(n, maxLimit)
	}
	q.Search = strings.ToLower(strings.TrimSpace(values.Get("search")))
	q.Sort = strings.TrimSpace(values.Get("sort"))
	q.Desc = strings.EqualFold(strings.TrimSpace(values.Get("order")), "desc")
	for _, key := range filterable {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[key] = v
		}
	}
	return q
}

// apply filters, orders and slices records. It returns the page and the
// total number of matches before paging.
func (q listQuery) apply(records []Record) ([]Record, int) {
	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if q.matches(rec) {
			matched = append(matched, rec)
		}
	}

	if q.Sort != "" {
		slices.SortStableFunc(matched, func(a, b Record) int {
			c := compareValues(a[q.Sort], b[q.Sort])
			if q.Desc {
				return -c
			}
			return c
		})
	}

	total := len(matched)
	// Clamp before multiplying; page can be as large as MaxInt.
	page := min(q.Page, total/q.Limit+1)
	start := (page - 1) * q.Limit
	if q.Page > page || start >= total {
		return []Record{}, total
	}
	end := min(start+q.Limit, total)
	return matched[start:end], total
}

func (q listQuery) matches(rec Record) bool {
	for key, want := range q.Filters {
		if !strings.EqualFold(fmt.Sprint(rec[key]), want) {
			return false
		}
	}
	if q.Search == "" {
		return true
	}
	for _, v := range rec {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), q.Search) {
			return true
		}
	}
	return false
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	return cmp.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}
