package ui

import (
	"fmt"
	"strings"
	"time"
)

// truncate shortens a string to limit runes, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle keeps both ends of a value, which suits file paths.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	suffix := keep * 2 / 3
	prefix := keep - suffix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

// formatAgo renders t as a clock time with a coarse relative hint.
func formatAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	clock := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		return clock + " (now)"
	case since < time.Hour:
		return fmt.Sprintf("%s (%dm ago)", clock, int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%s (%dh ago)", clock, int(since.Hours()))
	default:
		return clock
	}
}

// formatUptime renders the time since started as "up 3h12m".
func formatUptime(started, now time.Time) string {
	if started.IsZero() || now.Before(started) {
		return ""
	}
	d := now.Sub(started)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("up %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("up %dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("up %dd%dh", int(d.Hours())/24, int(d.Hours())%24)
	}
}
