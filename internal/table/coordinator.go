package table

import (
	"context"
	"maps"
	"slices"
)

// Request is one fetch issued to a data source. Page is 1-based.
type Request struct {
	Token    uint64
	Page     int
	PageSize int
	Search   string
	Sort     Sort
	Filters  map[string]string
	// Reload asks the data source to bypass any response cache.
	Reload bool
}

// SameQuery reports whether r and o ask for the same data.
func (r Request) SameQuery(o Request) bool {
	return r.Page == o.Page &&
		r.PageSize == o.PageSize &&
		r.Search == o.Search &&
		r.Sort == o.Sort &&
		maps.Equal(r.Filters, o.Filters)
}

// Page is what a data source returns for a Request.
type Page struct {
	Rows         []Row
	TotalRecords int
}

// FetchFunc loads one page. Implementations own timeouts; every error is
// treated as a recoverable failure.
type FetchFunc func(ctx context.Context, req Request) (Page, error)

// Outcome classifies a settlement.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeFailed
	OutcomeStale
	OutcomeClosed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "closed"
	}
}

// Snapshot is a read-only view of the coordinator for rendering.
type Snapshot struct {
	Rows         []Row
	TotalRecords int
	TotalPages   int
	Loading      bool
	Loaded       bool // at least one successful result has been applied
	Err          error
	Latest       Request
}

// Coordinator issues requests and admits only the result of the latest one.
// It runs on the UI update loop and holds no locks.
type Coordinator struct {
	token      uint64
	latest     Request
	issued     bool
	loading    bool
	loaded     bool
	closed     bool
	err        error
	rows       []Row
	total      int
	totalPages int
}

// Begin issues a request for st under a fresh token and enters loading.
func (c *Coordinator) Begin(st State, reload bool) Request {
	c.token++
	req := Request{
		Token:    c.token,
		Page:     max(0, st.PageIndex) + 1,
		PageSize: st.PageSize,
		Search:   st.Search,
		Sort:     st.Sort,
		Reload:   reload,
	}
	if len(st.Filters) > 0 {
		req.Filters = maps.Clone(st.Filters)
	}
	c.latest = req
	c.issued = true
	c.loading = true
	return req
}

// Retry re-issues the latest request with identical parameters under a new
// token. It returns false when nothing was ever issued or after Close.
func (c *Coordinator) Retry(reload bool) (Request, bool) {
	if !c.issued || c.closed {
		return Request{}, false
	}
	c.token++
	req := c.latest
	req.Token = c.token
	req.Reload = reload
	if len(c.latest.Filters) > 0 {
		req.Filters = maps.Clone(c.latest.Filters)
	}
	c.latest = req
	c.loading = true
	return req, true
}

// Current reports whether token belongs to the latest issued request.
func (c *Coordinator) Current(token uint64) bool {
	return !c.closed && c.issued && token == c.token
}

// Settle records the completion of the request identified by token.
// Results of superseded requests and anything after Close are discarded
// without touching the loading flag.
func (c *Coordinator) Settle(token uint64, page Page, err error) Outcome {
	if c.closed {
		return OutcomeClosed
	}
	if !c.Current(token) {
		return OutcomeStale
	}
	c.loading = false
	if err != nil {
		c.err = &FetchError{Request: c.latest, Err: err}
		return OutcomeFailed
	}
	c.err = nil
	c.loaded = true
	c.rows = slices.Clone(page.Rows)
	c.total = max(0, page.TotalRecords)
	c.totalPages = TotalPages(c.total, c.latest.PageSize)
	return OutcomeApplied
}

// Close makes every later settlement a no-op.
func (c *Coordinator) Close() {
	c.closed = true
	c.loading = false
}

// Closed reports whether Close was called.
func (c *Coordinator) Closed() bool {
	return c.closed
}

// Token returns the latest issued token.
func (c *Coordinator) Token() uint64 {
	return c.token
}

// Snapshot returns a copy of the visible result.
func (c *Coordinator) Snapshot() Snapshot {
	snap := Snapshot{
		Rows:         slices.Clone(c.rows),
		TotalRecords: c.total,
		TotalPages:   c.totalPages,
		Loading:      c.loading,
		Loaded:       c.loaded,
		Err:          c.err,
		Latest:       c.latest,
	}
	if len(c.latest.Filters) > 0 {
		snap.Latest.Filters = maps.Clone(c.latest.Filters)
	}
	return snap
}
