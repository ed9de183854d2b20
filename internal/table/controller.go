package table

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// DefaultFetchTimeout bounds a single data-source call.
const DefaultFetchTimeout = 10 * time.Second

var errNoDataSource = errors.New("no data source configured")

// Navigator records locations written by a controller. Push adds a history
// entry; Replace rewrites the current one.
type Navigator interface {
	Push(path, rawQuery string)
	Replace(path, rawQuery string)
}

// Config is what a screen supplies to get a working table.
type Config struct {
	ID               string // location path, e.g. "students"
	Title            string
	Columns          []Column
	Filters          []Filter
	Fetch            FetchFunc
	PageSizeOptions  []int
	DefaultPageSize  int
	DebounceInterval time.Duration
	FetchTimeout     time.Duration
	Navigator        Navigator
	Logger           *zerolog.Logger
}

// FetchedMsg carries a settled request back to the update loop.
type FetchedMsg struct {
	instance int
	Token    uint64
	Page     Page
	Err      error
}

var lastControllerID atomic.Int64

// Controller keeps one table's rows in step with its state, its location
// and the data source. All methods must be called from the update loop.
type Controller struct {
	cfg      Config
	instance int
	codec    Codec
	store    *Store
	coord    Coordinator
	debounce *Debouncer
	keys     KeyMap
	log      zerolog.Logger

	passthrough url.Values
	search      textinput.Model
	searching   bool
	sortCursor  int
	filterIdx   int

	ctx     context.Context
	cancel  context.CancelFunc
	mounted bool
}

// New builds a controller. It does nothing until Mount is called.
func New(cfg Config) *Controller {
	opts := Options{PageSizes: cfg.PageSizeOptions, DefaultPageSize: cfg.DefaultPageSize}
	filterKeys := make([]string, 0, len(cfg.Filters))
	for _, f := range cfg.Filters {
		filterKeys = append(filterKeys, f.Key)
	}
	sortKeys := make([]string, 0, len(cfg.Columns))
	for _, col := range cfg.Columns {
		if col.Sortable {
			sortKeys = append(sortKeys, col.Key)
		}
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search..."
	ti.CharLimit = 120

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:         cfg,
		instance:    int(lastControllerID.Add(1)),
		codec:       NewCodec(opts, filterKeys...).Sortable(sortKeys...),
		store:       NewStore(opts),
		debounce:    NewDebouncer(cfg.DebounceInterval),
		keys:        DefaultKeyMap(),
		log:         logger.With().Str("table", cfg.ID).Logger(),
		passthrough: url.Values{},
		search:      ti,
		sortCursor:  -1,
		ctx:         ctx,
		cancel:      cancel,
	}
	if idx := c.nextSortable(-1, 1); idx >= 0 {
		c.sortCursor = idx
	}
	return c
}

// ID returns the location path of the table.
func (c *Controller) ID() string { return c.cfg.ID }

// Title returns the display title.
func (c *Controller) Title() string { return c.cfg.Title }

// Keys returns the controller's key bindings.
func (c *Controller) Keys() KeyMap { return c.keys }

// State returns a copy of the canonical state.
func (c *Controller) State() State { return c.store.State() }

// Phase returns the store phase.
func (c *Controller) Phase() Phase { return c.store.Phase() }

// Snapshot returns the visible result.
func (c *Controller) Snapshot() Snapshot { return c.coord.Snapshot() }

// Capturing reports whether keys are going to the search box.
func (c *Controller) Capturing() bool { return c.searching }

// Location returns the encoded query for the current state.
func (c *Controller) Location() string {
	return c.codec.Encode(c.store.State(), c.passthrough)
}

// Mount reads the initial location and issues the first fetch immediately.
// The location is replaced only when rawQuery is not already canonical, so
// mounting from a history entry leaves that entry alone.
func (c *Controller) Mount(rawQuery string) tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	decoded := c.codec.Decode(rawQuery)
	c.logProblems(decoded.Problems)
	c.passthrough = decoded.Passthrough
	c.store.Hydrate(decoded.State)
	c.search.SetValue(c.store.State().Search)
	c.mounted = true
	if c.Location() != strings.TrimPrefix(strings.TrimSpace(rawQuery), "?") {
		c.writeLocation(false)
	}
	return c.fetch(false)
}

// Navigate re-hydrates from a location changed outside the controller, such
// as back/forward. It never writes the location back.
func (c *Controller) Navigate(rawQuery string) tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	if !c.mounted {
		return c.Mount(rawQuery)
	}
	decoded := c.codec.Decode(rawQuery)
	c.logProblems(decoded.Problems)
	c.passthrough = decoded.Passthrough
	c.debounce.Cancel()
	changed := c.store.Hydrate(decoded.State)
	c.search.SetValue(c.store.State().Search)
	if !changed {
		return nil
	}
	return c.fetch(false)
}

// SetPage moves to a page. Explicit page changes add a history entry.
func (c *Controller) SetPage(index int) tea.Cmd {
	if c.coord.Closed() || !c.store.SetPage(index) {
		return nil
	}
	c.writeLocation(true)
	return c.fetch(false)
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller) SetPageSize(size int) tea.Cmd {
	if c.coord.Closed() || !c.store.SetPageSize(size) {
		return nil
	}
	c.writeLocation(false)
	return c.fetch(false)
}

// SetSearch applies a settled search term.
func (c *Controller) SetSearch(term string) tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	if !c.store.SetSearch(term) {
		return nil
	}
	c.writeLocation(false)
	return c.fetch(false)
}

// TypeSearch feeds a raw keystroke value through the debouncer.
func (c *Controller) TypeSearch(raw string) tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	return c.debounce.Push(raw)
}

// SetSort orders by column; SortNone clears the ordering.
func (c *Controller) SetSort(column string, dir Direction) tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	if dir != SortNone && !c.sortable(column) {
		return nil
	}
	if !c.store.SetSort(column, dir) {
		return nil
	}
	c.writeLocation(true)
	return c.fetch(false)
}

// SetFilter sets a declared filter; an empty value clears it.
func (c *Controller) SetFilter(key, value string) tea.Cmd {
	if c.coord.Closed() || !c.declaredFilter(key) {
		return nil
	}
	if !c.store.SetFilter(key, value) {
		return nil
	}
	c.writeLocation(true)
	return c.fetch(false)
}

// Retry re-issues the request that produced the current error.
func (c *Controller) Retry() tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	req, ok := c.coord.Retry(false)
	if !ok {
		return c.fetch(false)
	}
	c.store.MarkPending()
	c.log.Debug().Uint64("token", req.Token).Int("page", req.Page).Msg("retry issued")
	return c.fetchCmd(req)
}

// Refresh reloads the current state, bypassing cached responses.
func (c *Controller) Refresh() tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	req, ok := c.coord.Retry(true)
	if !ok {
		return c.fetch(true)
	}
	c.store.MarkPending()
	c.log.Debug().Uint64("token", req.Token).Int("page", req.Page).Msg("refresh issued")
	return c.fetchCmd(req)
}

// Teardown stops the debouncer, abandons in-flight requests and ignores
// every later settlement.
func (c *Controller) Teardown() {
	if c.coord.Closed() {
		return
	}
	c.debounce.Stop()
	c.coord.Close()
	c.search.Blur()
	c.searching = false
	c.cancel()
	c.log.Debug().Msg("table torn down")
}

// Update handles the controller's own messages.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.coord.Closed() {
		return nil
	}
	switch msg := msg.(type) {
	case SettleMsg:
		if value, ok := c.debounce.Settle(msg); ok {
			return c.SetSearch(value)
		}
	case FetchedMsg:
		if msg.instance != c.instance {
			return nil
		}
		return c.settle(msg)
	}
	return nil
}

// HandleKey processes a key press. It reports whether the key was used.
func (c *Controller) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if c.coord.Closed() {
		return nil, false
	}
	if c.searching {
		return c.handleSearchKey(msg), true
	}

	st := c.store.State()
	snap := c.coord.Snapshot()
	switch {
	case key.Matches(msg, c.keys.Search):
		c.searching = true
		return c.search.Focus(), true
	case key.Matches(msg, c.keys.PrevPage):
		return c.SetPage(st.PageIndex - 1), true
	case key.Matches(msg, c.keys.NextPage):
		if snap.Loaded && st.PageIndex >= LastPageIndex(snap.TotalPages) {
			return nil, true
		}
		return c.SetPage(st.PageIndex + 1), true
	case key.Matches(msg, c.keys.FirstPage):
		return c.SetPage(0), true
	case key.Matches(msg, c.keys.LastPage):
		if !snap.Loaded {
			return nil, true
		}
		return c.SetPage(LastPageIndex(snap.TotalPages)), true
	case key.Matches(msg, c.keys.LargerPage):
		return c.SetPageSize(c.stepPageSize(st.PageSize, 1)), true
	case key.Matches(msg, c.keys.SmallerPage):
		return c.SetPageSize(c.stepPageSize(st.PageSize, -1)), true
	case key.Matches(msg, c.keys.SortLeft):
		if idx := c.nextSortable(c.sortCursor, -1); idx >= 0 {
			c.sortCursor = idx
		}
		return nil, true
	case key.Matches(msg, c.keys.SortRight):
		if idx := c.nextSortable(c.sortCursor, 1); idx >= 0 {
			c.sortCursor = idx
		}
		return nil, true
	case key.Matches(msg, c.keys.CycleSort):
		return c.cycleSort(st), true
	case key.Matches(msg, c.keys.CycleFilter):
		if len(c.cfg.Filters) == 0 {
			return nil, true
		}
		f := c.cfg.Filters[c.filterIdx]
		return c.SetFilter(f.Key, f.next(st.Filters[f.Key])), true
	case key.Matches(msg, c.keys.NextFilter):
		if len(c.cfg.Filters) > 0 {
			c.filterIdx = (c.filterIdx + 1) % len(c.cfg.Filters)
		}
		return nil, true
	case key.Matches(msg, c.keys.Refresh):
		if snap.Err != nil {
			return c.Retry(), true
		}
		return c.Refresh(), true
	}
	return nil, false
}

func (c *Controller) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Confirm):
		c.searching = false
		c.search.Blur()
		c.debounce.Cancel()
		return c.SetSearch(c.search.Value())
	case key.Matches(msg, c.keys.Cancel):
		c.searching = false
		c.search.Blur()
		c.debounce.Cancel()
		c.search.SetValue(c.store.State().Search)
		return nil
	}

	before := c.search.Value()
	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	if after := c.search.Value(); after != before {
		return tea.Batch(cmd, c.TypeSearch(after))
	}
	return cmd
}

func (c *Controller) settle(msg FetchedMsg) tea.Cmd {
	outcome := c.coord.Settle(msg.Token, msg.Page, msg.Err)
	switch outcome {
	case OutcomeStale:
		c.log.Debug().Err(ErrStaleResult).
			Uint64("token", msg.Token).
			Uint64("latest", c.coord.Token()).
			Msg("result discarded")
		return nil
	case OutcomeClosed:
		return nil
	case OutcomeFailed:
		c.store.Settled()
		c.log.Warn().Err(msg.Err).Uint64("token", msg.Token).Msg("fetch failed")
		return nil
	}

	snap := c.coord.Snapshot()
	c.log.Debug().
		Uint64("token", msg.Token).
		Int("rows", len(snap.Rows)).
		Int("total", snap.TotalRecords).
		Msg("result applied")

	if c.store.ClampPage(snap.TotalPages) {
		c.log.Debug().
			Int("page_index", c.store.State().PageIndex).
			Int("total_pages", snap.TotalPages).
			Msg("page clamped")
		c.writeLocation(false)
		return c.fetch(false)
	}
	c.store.Settled()
	return nil
}

func (c *Controller) fetch(reload bool) tea.Cmd {
	req := c.coord.Begin(c.store.State(), reload)
	c.store.MarkPending()
	c.log.Debug().
		Uint64("token", req.Token).
		Int("page", req.Page).
		Int("limit", req.PageSize).
		Str("search", req.Search).
		Msg("fetch issued")
	return c.fetchCmd(req)
}

func (c *Controller) fetchCmd(req Request) tea.Cmd {
	fetch := c.cfg.Fetch
	base := c.ctx
	timeout := c.cfg.FetchTimeout
	instance := c.instance
	return func() tea.Msg {
		if fetch == nil {
			return FetchedMsg{instance: instance, Token: req.Token, Err: errNoDataSource}
		}
		ctx, cancel := context.WithTimeout(base, timeout)
		defer cancel()
		page, err := fetch(ctx, req)
		return FetchedMsg{instance: instance, Token: req.Token, Page: page, Err: err}
	}
}

func (c *Controller) writeLocation(push bool) {
	if c.cfg.Navigator == nil {
		return
	}
	loc := c.Location()
	if push {
		c.cfg.Navigator.Push(c.cfg.ID, loc)
		return
	}
	c.cfg.Navigator.Replace(c.cfg.ID, loc)
}

func (c *Controller) logProblems(problems []error) {
	for _, p := range problems {
		c.log.Debug().Err(p).Msg("location value defaulted")
	}
}

func (c *Controller) cycleSort(st State) tea.Cmd {
	if c.sortCursor < 0 || c.sortCursor >= len(c.cfg.Columns) {
		return nil
	}
	col := c.cfg.Columns[c.sortCursor]
	dir := SortAscending
	if st.Sort.Column == col.Key {
		dir = st.Sort.Direction.Next()
	}
	return c.SetSort(col.Key, dir)
}

func (c *Controller) sortable(column string) bool {
	for _, col := range c.cfg.Columns {
		if col.Key == column {
			return col.Sortable
		}
	}
	return false
}

func (c *Controller) declaredFilter(key string) bool {
	for _, f := range c.cfg.Filters {
		if f.Key == key {
			return true
		}
	}
	return false
}

// nextSortable finds the next sortable column from idx in direction step.
func (c *Controller) nextSortable(idx, step int) int {
	n := len(c.cfg.Columns)
	for i := 1; i <= n; i++ {
		j := ((idx+step*i)%n + n) % n
		if c.cfg.Columns[j].Sortable {
			return j
		}
	}
	return -1
}

func (c *Controller) stepPageSize(current, step int) int {
	sizes := c.store.Options().PageSizes
	i := slices.Index(sizes, current)
	if i < 0 {
		return c.store.Options().DefaultPageSize
	}
	j := min(max(i+step, 0), len(sizes)-1)
	return sizes[j]
}

// View draws the controls and the table within width.
func (c *Controller) View(width int, p Palette, spinner string) string {
	st := c.store.State()
	var controls []string
	if c.searching {
		controls = append(controls, c.search.View())
	} else if st.Search != "" {
		controls = append(controls, p.Accent.Render("/ "+st.Search))
	} else {
		controls = append(controls, p.Muted.Render("/ search"))
	}
	for i, f := range c.cfg.Filters {
		value := st.Filters[f.Key]
		if value == "" {
			value = "all"
		}
		label := f.Label
		if label == "" {
			label = f.Key
		}
		text := fmt.Sprintf("%s: %s", label, value)
		if i == c.filterIdx {
			controls = append(controls, p.Accent.Render(text))
		} else {
			controls = append(controls, p.Muted.Render(text))
		}
	}

	view := View{
		Columns:    c.cfg.Columns,
		Snapshot:   c.coord.Snapshot(),
		State:      st,
		SortCursor: c.sortCursor,
		Width:      width,
		Spinner:    spinner,
		RetryKey:   strings.Join(c.keys.Refresh.Keys(), "/"),
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(controls, p.Muted.Render("  ·  ")),
		"",
		Render(view, p),
	)
}
