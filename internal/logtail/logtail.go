package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Event is one parsed log line.
type Event struct {
	Time    time.Time
	Level   string
	Message string
	Error   string
	Fields  map[string]any
	Raw     string
}

// reserved keys are shown in fixed positions rather than as fields.
var reserved = []string{"time", "ts", "level", "message", "msg", "error", "service", "version"}

// Parse decodes a JSON log line. Lines that are not JSON objects come back
// with only Raw and Message set.
func Parse(line string) Event {
	ev := Event{Raw: line, Message: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return ev
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ev
	}

	ev.Level = stringField(payload, "level")
	ev.Message = stringField(payload, "message", "msg")
	ev.Error = stringField(payload, "error")
	if ts := stringField(payload, "time", "ts"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			ev.Time = t
		}
	}
	for key, value := range payload {
		if slices.Contains(reserved, key) {
			continue
		}
		if ev.Fields == nil {
			ev.Fields = make(map[string]any)
		}
		ev.Fields[key] = value
	}
	return ev
}

// ReadEvents reads and parses the last maxLines of path.
func ReadEvents(path string, maxLines int) ([]Event, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		events = append(events, Parse(line))
	}
	return events, nil
}

// Format renders ev on one line: time, level, message, sorted fields, error.
func Format(ev Event) string {
	if ev.Level == "" && ev.Time.IsZero() {
		return ev.Raw
	}
	var b strings.Builder
	if !ev.Time.IsZero() {
		b.WriteString(ev.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	level := strings.ToUpper(ev.Level)
	if level == "" {
		level = "-"
	}
	fmt.Fprintf(&b, "%-5s %s", level, ev.Message)
	for _, key := range slices.Sorted(maps.Keys(ev.Fields)) {
		fmt.Fprintf(&b, " %s=%v", key, ev.Fields[key])
	}
	if ev.Error != "" {
		fmt.Fprintf(&b, " error=%q", ev.Error)
	}
	return b.String()
}

func stringField(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key].(string); ok {
			return v
		}
	}
	return ""
}
