package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/healthdesk/internal/api"
)

// renderHeader renders the status line: logo, API state and record count.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("healthdesk", styles.Logo)}

	snap := m.snapshot
	switch {
	case !snap.HasStatus && snap.LastError == nil:
		parts = append(parts, styles.StatusStyle("due").Render("CONNECTING"))
	case snap.IsOffline() || !snap.HasStatus:
		parts = append(parts, styles.StatusStyle("out").Render(classifyConnectionError(snap.LastError)))
	default:
		parts = append(parts, styles.StatusStyle("active").Render("ONLINE"))
	}

	if snap.HasStatus {
		if !compact && snap.Status.Version != "" {
			parts = append(parts, bg.Render("API", styles.MutedText)+bg.Space()+
				bg.Render("v"+snap.Status.Version, styles.Text))
			if up := formatUptime(snap.Status.StartedTime(), m.now); up != "" {
				parts = append(parts, bg.Render(up, styles.MutedText))
			}
		}
		if n, ok := snap.Status.Resources[m.screen.Resource]; ok {
			parts = append(parts, bg.Render(m.screen.Title+":", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.Text))
		}
	}

	if ts := formatAgo(snap.LastUpdated, m.now); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil && snap.ConsecutiveFailures > 0 {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts, bg.Render("ERROR", styles.DangerText)+bg.Space()+
			bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTabs lists the screens with the active one highlighted, followed by
// the current location.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := newBgStyle(m.theme.Background)

	tabs := make([]string, 0, len(m.screens))
	for _, s := range m.screens {
		label := s.Hotkey + " " + s.Title
		if s.ID == m.screen.ID {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(label))
			continue
		}
		tabs = append(tabs, bg.Spaces(1)+bg.Render(label, styles.MutedText)+bg.Spaces(1))
	}
	line := strings.Join(tabs, bg.Space())

	arrows := ""
	if m.history.CanBack() {
		arrows += "["
	}
	if m.history.CanForward() {
		arrows += "]"
	}
	loc := truncateMiddle(m.history.Current().String(), 48)
	line += bg.Spaces(2) + bg.Render(loc, styles.AccentText)
	if arrows != "" {
		line += bg.Space() + bg.Render(arrows, styles.FaintText)
	}
	return bg.Fill(line, m.width)
}

// renderCommandBar shows key hints, or the location prompt while it is open.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBgStyle(m.theme.Surface)

	if m.locating {
		return styles.Footer.Width(m.width).Render(m.location.View())
	}

	var bindings []key.Binding
	if m.active != nil {
		bindings = append(bindings, m.active.Keys().ShortHelp()...)
	}
	bindings = append(bindings, m.keys.ShortHelp()...)

	h := m.help
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	h.Width = max(m.width-len(m.theme.Name)-6, 0)

	bar := h.ShortHelpView(bindings) + bg.Spaces(2) +
		bg.Render("T", styles.AccentText) + bg.Render(":"+m.theme.Name, styles.FaintText)
	return styles.Footer.Width(m.width).Render(bar)
}

// classifyConnectionError returns a short label for a status failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Temporary() {
			return "UNAVAILABLE"
		}
		return "ERROR"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}
