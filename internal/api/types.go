package api

import (
	"encoding/json"
	"strings"
	"time"
)

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	StartedAt string         `json:"started_at"`
	Resources map[string]int `json:"resources"`
}

// StartedTime parses StartedAt. The zero time is returned when it is missing
// or not RFC 3339.
func (s StatusResponse) StartedTime() time.Time {
	value := strings.TrimSpace(s.StartedAt)
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PageResponse is the payload of GET /api/{resource}.
type PageResponse struct {
	Items []map[string]any `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page,omitempty"`
	Limit int              `json:"limit,omitempty"`
}

// PageQuery selects one page of a resource. Page is 1-based.
type PageQuery struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Order   string // "asc" or "desc"
	Filters map[string]string
	// Reload skips cached responses. It has no effect on the wire.
	Reload bool
}

// ErrorResponse is the body returned with error statuses, when the server
// sends one.
type ErrorResponse struct {
	Error string `json:"error"`
}

func decodeErrorBody(body []byte) string {
	var payload ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
