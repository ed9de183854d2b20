package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/healthdesk/internal/logtail"
)

// diagnostics is the log overlay opened with L. It shows the tail of the
// console's own log file.
type diagnostics struct {
	open     bool
	path     string
	events   []logtail.Event
	err      error
	viewport viewport.Model
}

type diagnosticsMsg struct {
	events []logtail.Event
	err    error
}

func loadDiagnosticsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		events, err := logtail.ReadEvents(path, DiagnosticsLines)
		return diagnosticsMsg{events: events, err: err}
	}
}

func (m *Model) openDiagnostics() tea.Cmd {
	m.diag.open = true
	m.resizeDiagnostics()
	if m.diag.path == "" {
		m.diag.events, m.diag.err = nil, nil
		m.refreshDiagnosticsContent()
		return nil
	}
	return loadDiagnosticsCmd(m.diag.path)
}

func (m *Model) resizeDiagnostics() {
	w := max(m.width-6, 20)
	h := max(m.height-6, 5)
	if m.diag.viewport.Width == 0 {
		m.diag.viewport = viewport.New(w, h)
		return
	}
	m.diag.viewport.Width = w
	m.diag.viewport.Height = h
}

func (m *Model) handleDiagnosticsMsg(msg diagnosticsMsg) {
	m.diag.events, m.diag.err = msg.events, msg.err
	m.refreshDiagnosticsContent()
	m.diag.viewport.GotoBottom()
}

func (m *Model) refreshDiagnosticsContent() {
	styles := m.theme.Styles()
	var lines []string
	switch {
	case m.diag.path == "":
		lines = append(lines, styles.MutedText.Render("Logging is disabled (set log_file and log_level in the config)."))
	case m.diag.err != nil:
		lines = append(lines, styles.DangerText.Render(fmt.Sprintf("Cannot read %s: %v", m.diag.path, m.diag.err)))
	case len(m.diag.events) == 0:
		lines = append(lines, styles.MutedText.Render("No log entries yet."))
	}
	for _, ev := range m.diag.events {
		line := truncate(logtail.Format(ev), m.diag.viewport.Width)
		lines = append(lines, m.levelStyle(ev.Level).Render(line))
	}
	m.diag.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.Text
	}
}

func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape, m.keys.Diagnostics, m.keys.Quit):
		m.diag.open = false
		return m, nil
	case msg.String() == "r":
		return m, m.openDiagnostics()
	}
	var cmd tea.Cmd
	m.diag.viewport, cmd = m.diag.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()
	title := styles.Text.Bold(true).Render("Diagnostics")
	source := m.diag.path
	if source == "" {
		source = "logging disabled"
	}
	hint := styles.FaintText.Render(fmt.Sprintf("%s  ·  r reload  ·  esc close", truncateMiddle(source, 50)))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 1)
	body := lipgloss.JoinVertical(lipgloss.Left, title, hint, "", m.diag.viewport.View())
	return m.place(modal.Render(body))
}
