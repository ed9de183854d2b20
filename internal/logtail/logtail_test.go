package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "zero lines",
			maxLines: 0,
			expected: nil,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"debug","service":"healthdesk","table":"students","token":7,"time":"2026-10-19T08:30:00Z","message":"result discarded","error":"stale result discarded"}`
	ev := Parse(line)

	if ev.Level != "debug" || ev.Message != "result discarded" {
		t.Fatalf("Parse() level/message = %q/%q", ev.Level, ev.Message)
	}
	if ev.Error != "stale result discarded" {
		t.Fatalf("Parse() error = %q", ev.Error)
	}
	if ev.Time.IsZero() || ev.Time.Hour() != 8 {
		t.Fatalf("Parse() time = %v", ev.Time)
	}
	want := map[string]any{"table": "students", "token": float64(7)}
	if !reflect.DeepEqual(ev.Fields, want) {
		t.Fatalf("Parse() fields = %#v, want %#v", ev.Fields, want)
	}
}

func TestParse_PlainText(t *testing.T) {
	for _, line := range []string{"panic: boom", "{not json", ""} {
		ev := Parse(line)
		if ev.Raw != line || ev.Message != line || ev.Level != "" {
			t.Fatalf("Parse(%q) = %#v", line, ev)
		}
		if got := Format(ev); got != line {
			t.Fatalf("Format(Parse(%q)) = %q", line, got)
		}
	}
}

func TestFormat(t *testing.T) {
	ev := Parse(`{"level":"warn","table":"users","page":2,"message":"fetch failed","error":"timeout"}`)
	got := Format(ev)
	want := `WARN  fetch failed page=2 table=users error="timeout"`
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestReadEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	body := `{"level":"info","message":"one"}` + "\n\n" + `{"level":"info","message":"two"}` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	events, err := ReadEvents(path, 10)
	if err != nil {
		t.Fatalf("ReadEvents() error = %v", err)
	}
	if len(events) != 2 || events[1].Message != "two" {
		t.Fatalf("ReadEvents() = %#v", events)
	}
}
