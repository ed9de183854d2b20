package table

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the quiet interval applied to search input.
const DefaultDebounce = 500 * time.Millisecond

var lastDebouncerID atomic.Int64

func nextDebouncerID() int {
	return int(lastDebouncerID.Add(1))
}

// SettleMsg is delivered when a debounce window expires. Only the message
// carrying the debouncer's latest tag is honoured.
type SettleMsg struct {
	id    int
	tag   int
	Value string
}

// Debouncer turns a burst of values into one value after a quiet interval.
// Each Push supersedes the pending one; Stop drops whatever is pending.
type Debouncer struct {
	id       int
	tag      int
	interval time.Duration
	pending  bool
	stopped  bool
}

// NewDebouncer returns a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{id: nextDebouncerID(), interval: interval}
}

// Interval returns the quiet interval.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Pending reports whether a value is waiting for its window to expire.
func (d *Debouncer) Pending() bool {
	return d.pending && !d.stopped
}

// Push restarts the window with value and returns the command that will
// deliver it. Earlier pending values will be ignored when they arrive.
func (d *Debouncer) Push(value string) tea.Cmd {
	if d.stopped {
		return nil
	}
	d.tag++
	d.pending = true
	id, tag := d.id, d.tag
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return SettleMsg{id: id, tag: tag, Value: value}
	})
}

// Settle reports whether msg is this debouncer's current emission. It
// returns true at most once per window.
func (d *Debouncer) Settle(msg SettleMsg) (string, bool) {
	if d.stopped || !d.pending || msg.id != d.id || msg.tag != d.tag {
		return "", false
	}
	d.pending = false
	return msg.Value, true
}

// Cancel drops the pending value without stopping the debouncer.
func (d *Debouncer) Cancel() {
	d.tag++
	d.pending = false
}

// Stop drops any pending value permanently. Later Push calls are no-ops.
func (d *Debouncer) Stop() {
	d.stopped = true
	d.pending = false
}
