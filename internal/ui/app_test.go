package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/config"
	"github.com/five82/healthdesk/internal/prefs"
	"github.com/five82/healthdesk/internal/state"
	"github.com/five82/healthdesk/internal/table"
)

type stubSource struct {
	mu    sync.Mutex
	total int
	calls []string
}

func (s *stubSource) FetchPage(_ context.Context, resource string, q api.PageQuery) (api.PageResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, fmt.Sprintf("%s page=%d limit=%d", resource, q.Page, q.Limit))
	s.mu.Unlock()

	items := make([]map[string]any, 0, q.Limit)
	for i := 0; i < q.Limit; i++ {
		items = append(items, map[string]any{"id": float64((q.Page-1)*q.Limit + i + 1), "name": resource})
	}
	return api.PageResponse{Items: items, Total: s.total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *stubSource) lastCall() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	return s.calls[len(s.calls)-1]
}

func testModel(t *testing.T, start string) (Model, *stubSource) {
	t.Helper()
	src := &stubSource{total: 100}
	cfg := config.Default()
	cfg.LogFile = ""
	m := New(Options{
		Source:    src,
		Config:    cfg,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Start:     start,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), src
}

// settle runs cmd and feeds fetch results back until nothing is left.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(table.FetchedMsg); !ok {
			return m
		}
		next, c := m.Update(msg)
		m, cmd = next.(Model), c
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestInitMountsStartLocation(t *testing.T) {
	m, _ := testModel(t, "/medications?page=2&limit=20")
	require.NotNil(t, m.Init())

	assert.Equal(t, "medications", m.screen.ID)
	assert.Equal(t, "medications?limit=20&page=2", m.history.Current().String())
	assert.Equal(t, 1, m.active.State().PageIndex)
	assert.Equal(t, 20, m.active.State().PageSize)
	assert.True(t, m.active.Snapshot().Loading)
}

func TestUnknownStartFallsBackToFirstScreen(t *testing.T) {
	m, _ := testModel(t, "grades?page=2")
	assert.Equal(t, "students", m.screen.ID)
	assert.Equal(t, "students", m.history.Current().Path)
	assert.Contains(t, m.notice, "grades")
}

func TestFetchResultsReachActiveTable(t *testing.T) {
	m, src := testModel(t, "students")
	m = settle(t, m, m.active.Mount(""))

	snap := m.active.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Len(t, snap.Rows, 10)
	assert.Equal(t, 10, snap.TotalPages)
	assert.Equal(t, "students page=1 limit=10", src.lastCall())
	assert.Contains(t, m.View(), "page 1 of 10")
}

func TestScreenHotkeysAndHistory(t *testing.T) {
	m, src := testModel(t, "students")
	m = settle(t, m, m.active.Mount("page=2"))
	first := m.active

	m, cmd := press(t, m, "3")
	assert.Equal(t, "medications", m.screen.ID)
	assert.NotSame(t, first, m.active)
	assert.Equal(t, 2, m.history.Len())
	m = settle(t, m, cmd)
	assert.Equal(t, "medications page=1 limit=10", src.lastCall())

	// Same hotkey again is not a navigation.
	m, cmd = press(t, m, "3")
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.history.Len())

	m, cmd = press(t, m, "[")
	assert.Equal(t, "students", m.screen.ID)
	assert.Equal(t, 1, m.active.State().PageIndex)
	m = settle(t, m, cmd)
	assert.Equal(t, "students page=2 limit=10", src.lastCall())
	assert.Equal(t, 2, m.history.Len(), "back must not add entries")

	m, _ = press(t, m, "]")
	assert.Equal(t, "medications", m.screen.ID)
}

func TestSwitchingScreensDropsOldResults(t *testing.T) {
	m, _ := testModel(t, "students")
	m.active.Mount("")
	pending := m.active.Refresh()
	require.NotNil(t, pending)

	m, _ = press(t, m, "6")
	require.Equal(t, "users", m.screen.ID)
	m.active.Mount("")

	next, _ := m.Update(pending())
	m = next.(Model)
	assert.False(t, m.active.Snapshot().Loaded)
	assert.True(t, m.active.Snapshot().Loading)
}

func TestLocationBarOpensLocation(t *testing.T) {
	m, _ := testModel(t, "students")
	m = settle(t, m, m.active.Mount(""))

	m, _ = press(t, m, ":")
	require.True(t, m.locating)
	assert.Equal(t, "students?limit=10&page=1", m.location.Value())

	m, cmd := press(t, m, "ctrl+u", "users?role=nurse", "enter")
	assert.False(t, m.locating)
	assert.Equal(t, "users", m.screen.ID)
	assert.Equal(t, "nurse", m.active.State().Filters["role"])
	assert.Equal(t, "users?limit=10&page=1&role=nurse", m.history.Current().String())
	assert.NotNil(t, cmd)
}

func TestLocationBarSameScreenNavigates(t *testing.T) {
	m, _ := testModel(t, "students")
	m = settle(t, m, m.active.Mount(""))
	ctrl := m.active

	m, _ = press(t, m, ":", "ctrl+u", "students?limit=20&page=3&junk=1", "enter")
	assert.Same(t, ctrl, m.active)
	assert.Equal(t, 2, m.active.State().PageIndex)
	assert.Equal(t, 2, m.history.Len())
	assert.Equal(t, "students?junk=1&limit=20&page=3", m.history.Current().String())
}

func TestLocationBarUnknownAndCancel(t *testing.T) {
	m, _ := testModel(t, "students")

	m, cmd := press(t, m, ":", "ctrl+u", "reports", "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "students", m.screen.ID)
	assert.Contains(t, m.notice, "reports")

	m, _ = press(t, m, "esc")
	assert.Empty(t, m.notice)

	m, _ = press(t, m, ":", "ctrl+u", "users", "esc")
	assert.False(t, m.locating)
	assert.Equal(t, "students", m.screen.ID)
}

func TestSearchInputCapturesConsoleKeys(t *testing.T) {
	m, _ := testModel(t, "students")
	m = settle(t, m, m.active.Mount(""))

	m, _ = press(t, m, "/", "2", "q")
	assert.True(t, m.active.Capturing())
	assert.Equal(t, "students", m.screen.ID)

	m, _ = press(t, m, "esc")
	assert.False(t, m.active.Capturing())

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestThemeKeySavesPrefs(t *testing.T) {
	m, _ := testModel(t, "inventory?page=2")
	m.Init()

	m, _ = press(t, m, "T")
	assert.Equal(t, "Kanagawa", m.theme.Name)

	p, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", p.Theme)
	assert.Equal(t, "inventory?limit=10&page=2", p.StartLocation)
}

func TestUnknownThemeFallsBack(t *testing.T) {
	m := New(Options{Config: config.Default(), ThemeName: "Dracula", PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	assert.Equal(t, "Nightfox", m.theme.Name)

	m = New(Options{Config: config.Default(), ThemeName: "Slate", PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	assert.Equal(t, "Slate", m.theme.Name)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := testModel(t, "students")

	m, _ = press(t, m, "?")
	require.True(t, m.showHelp)
	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Next page")
	assert.Contains(t, view, "Open location")

	m, _ = press(t, m, "x")
	assert.False(t, m.showHelp)
}

func TestDiagnosticsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthdesk.log")
	lines := `{"level":"debug","table":"students","time":"2026-01-02T08:30:00Z","message":"fetch issued"}
{"level":"warn","table":"students","error":"api: status 503","time":"2026-01-02T08:30:01Z","message":"fetch failed"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	m, _ := testModel(t, "students")
	m.diag.path = path

	m, cmd := press(t, m, "L")
	require.True(t, m.diag.open)
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)

	require.Len(t, m.diag.events, 2)
	view := m.View()
	assert.Contains(t, view, "Diagnostics")
	assert.Contains(t, view, "fetch failed")

	m, _ = press(t, m, "esc")
	assert.False(t, m.diag.open)
}

func TestDiagnosticsWithoutLogFile(t *testing.T) {
	m, _ := testModel(t, "students")
	m, cmd := press(t, m, "L")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Logging is disabled")
}

func TestHeaderReflectsStatus(t *testing.T) {
	m, _ := testModel(t, "students")
	assert.Contains(t, m.renderHeader(), "CONNECTING")

	store := &state.Store{}
	started := time.Now().Add(-(2*time.Hour + 30*time.Minute)).UTC().Format(time.RFC3339)
	store.Update(&api.StatusResponse{
		Service: "healthdesk-mock", Version: "0.3.0", StartedAt: started,
		Resources: map[string]int{"students": 240},
	}, nil)
	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	header := m.renderHeader()
	assert.Contains(t, header, "ONLINE")
	assert.Contains(t, header, "v0.3.0")
	assert.Contains(t, header, "up 2h30m")
	assert.Contains(t, header, "240")

	store.Update(nil, errors.New("dial tcp: connection refused"))
	store.Update(nil, errors.New("dial tcp: connection refused"))
	next, _ = m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	assert.Contains(t, m.renderHeader(), "OFFLINE")
}

func TestClassifyConnectionError(t *testing.T) {
	cases := map[string]string{
		"dial tcp 127.0.0.1:7490: connect: connection refused": "OFFLINE",
		"dial tcp: lookup api.local: no such host":             "HOST NOT FOUND",
		"context deadline exceeded":                            "TIMEOUT",
		"api: status 500":                                      "ERROR",
	}
	for in, want := range cases {
		assert.Equal(t, want, classifyConnectionError(errors.New(in)), in)
	}
	assert.Equal(t, "OFFLINE", classifyConnectionError(nil))
	assert.Equal(t, "UNAVAILABLE", classifyConnectionError(fmt.Errorf("poll: %w", &api.StatusError{Path: "/api/status", Code: 503})))
	assert.Equal(t, "ERROR", classifyConnectionError(&api.StatusError{Path: "/api/status", Code: 404}))
}
