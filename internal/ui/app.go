package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/config"
	"github.com/five82/healthdesk/internal/nav"
	"github.com/five82/healthdesk/internal/prefs"
	"github.com/five82/healthdesk/internal/screens"
	"github.com/five82/healthdesk/internal/state"
	"github.com/five82/healthdesk/internal/table"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    api.PageSource
	Store     *state.Store
	Config    config.Config
	Logger    zerolog.Logger
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	// Start is the first location, e.g. "students?page=2".
	Start string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	source    api.PageSource
	store     *state.Store
	config    config.Config
	logger    zerolog.Logger
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
	ready   bool

	// Screens and location
	screens []screens.Screen
	screen  screens.Screen
	history *nav.History
	active  *table.Controller

	// Status header
	snapshot state.Snapshot
	now      time.Time

	// Overlays and prompts
	showHelp bool
	locating bool
	location textinput.Model
	notice   string
	diag     diagnostics
}

// New creates the model and the controller for the start location. Nothing
// is fetched until Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultPollTick
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}
	if !slices.Contains(ThemeNames(), themeName) {
		opts.Logger.Warn().Str("theme", themeName).Strs("available", ThemeNames()).Msg("unknown theme, using default")
		themeName = ThemeNames()[0]
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	loc := textinput.New()
	loc.Prompt = ": "
	loc.Placeholder = "students?page=2&limit=20"
	loc.CharLimit = 256

	all := screens.All()
	m := Model{
		ctx:       ctx,
		source:    opts.Source,
		store:     opts.Store,
		config:    opts.Config,
		logger:    opts.Logger,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		theme:     GetTheme(themeName),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		screens:   all,
		location:  loc,
		diag:      diagnostics{path: opts.Config.LogFile},
	}

	start := nav.ParseLocation(opts.Start)
	scr, ok := screens.Find(start.Path)
	if !ok {
		if start.Path != "" {
			m.notice = fmt.Sprintf("unknown location %q", start.Path)
		}
		scr, start = all[0], nav.Location{Path: all[0].ID}
	}
	m.history = nav.NewHistory(nav.Location{Path: scr.ID, RawQuery: start.RawQuery}, nav.DefaultHistoryLimit)
	m.switchTo(scr)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick), m.spinner.Tick}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, m.active.Mount(m.history.Current().RawQuery))
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		if m.diag.open {
			m.resizeDiagnostics()
			m.refreshDiagnosticsContent()
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.now = time.Now()
		return m, nil

	case diagnosticsMsg:
		m.handleDiagnosticsMsg(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case table.FetchedMsg, table.SettleMsg:
		return m, m.active.Update(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.diag.open {
		return m.renderDiagnostics()
	}
	return m.renderMain()
}

// handleKey routes a key press. Overlays and prompts take every key; a
// table capturing search input comes next; then console keys; then the
// table's own controls.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.diag.open {
		return m.handleDiagnosticsKey(msg)
	}
	if m.locating {
		return m.handleLocationKey(msg)
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.active.Capturing() {
		cmd, _ := m.active.HandleKey(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		return m, m.openDiagnostics()

	case key.Matches(msg, m.keys.Location):
		m.locating = true
		m.notice = ""
		m.location.SetValue(m.history.Current().String())
		m.location.CursorEnd()
		return m, m.location.Focus()

	case key.Matches(msg, m.keys.Back):
		if loc, ok := m.history.Back(); ok {
			return m, m.visit(loc, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		if loc, ok := m.history.Forward(); ok {
			return m, m.visit(loc, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Screen):
		for _, s := range m.screens {
			if s.Hotkey == msg.String() && s.ID != m.screen.ID {
				return m, m.visit(nav.Location{Path: s.ID}, true)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape) && m.notice != "":
		m.notice = ""
		return m, nil
	}

	cmd, _ := m.active.HandleKey(msg)
	return m, cmd
}

func (m Model) handleLocationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.locating = false
		m.location.Blur()
		return m, m.visit(nav.ParseLocation(m.location.Value()), true)
	case tea.KeyEsc:
		m.locating = false
		m.location.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.location, cmd = m.location.Update(msg)
	return m, cmd
}

// visit opens loc. A pushed visit adds a history entry; back and forward
// pass push=false because the history cursor has already moved.
func (m *Model) visit(loc nav.Location, push bool) tea.Cmd {
	if loc.Path == "" {
		loc.Path = m.screen.ID
	}
	scr, ok := screens.Find(loc.Path)
	if !ok {
		m.notice = fmt.Sprintf("unknown location %q", loc.Path)
		return nil
	}
	m.notice = ""
	if push {
		m.history.Push(scr.ID, loc.RawQuery)
	}

	if scr.ID == m.screen.ID {
		cmd := m.active.Navigate(loc.RawQuery)
		if push {
			m.history.Replace(scr.ID, m.active.Location())
		}
		return cmd
	}

	m.switchTo(scr)
	return m.active.Mount(loc.RawQuery)
}

// switchTo tears down the current table and builds the one for scr.
func (m *Model) switchTo(scr screens.Screen) {
	if m.active != nil {
		m.active.Teardown()
	}
	var fetch table.FetchFunc
	if m.source != nil {
		fetch = screens.Fetcher(m.source, scr.Resource)
	}
	logger := m.logger
	m.screen = scr
	m.active = table.New(table.Config{
		ID:               scr.ID,
		Title:            scr.Title,
		Columns:          scr.Columns,
		Filters:          scr.Filters,
		Fetch:            fetch,
		PageSizeOptions:  m.config.PageSizes,
		DefaultPageSize:  m.config.DefaultPageSize,
		DebounceInterval: m.config.Debounce,
		FetchTimeout:     m.config.RequestTimeout,
		Navigator:        m.history,
		Logger:           &logger,
	})
	m.logger.Debug().Str("screen", scr.ID).Msg("screen opened")
}

// savePrefs writes the theme and the current location.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, StartLocation: m.history.Current().String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences failed")
	}
}

// close releases the active table.
func (m Model) close() {
	if m.active != nil {
		m.active.Teardown()
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	body := m.active.View(m.width, m.theme.Palette(), m.spinner.View())
	sections := []string{
		m.renderHeader(),
		m.renderTabs(),
		m.renderCommandBar(),
		"",
		body,
	}
	if m.notice != "" {
		sections = append(sections, "", m.theme.Styles().WarningText.Render(m.notice))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.height > chromeLines {
		content = lipgloss.NewStyle().MaxHeight(m.height).Render(content)
	}
	return content
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled. The last location is saved as the next start.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.close()
		fm.savePrefs()
	}
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
