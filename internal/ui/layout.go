package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Diagnostics overlay limits.
const (
	// DiagnosticsLines is the number of log lines read for the overlay.
	DiagnosticsLines = 500
)

// Timing constants.
const (
	// DefaultPollTick is how often the header re-reads the status store.
	DefaultPollTick = time.Second
)

// chromeLines is the height of the header, tab strip and command bar.
const chromeLines = 4
