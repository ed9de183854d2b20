package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PageSource loads pages of a resource. *Client and *CachedSource implement it.
type PageSource interface {
	FetchPage(ctx context.Context, resource string, query PageQuery) (PageResponse, error)
}

// StatusFetcher is what the background poller needs.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (*StatusResponse, error)
}

var (
	_ PageSource    = (*Client)(nil)
	_ StatusFetcher = (*Client)(nil)
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// ErrNilClient is returned by methods called on a nil *Client.
var ErrNilClient = errors.New("api client is nil")

// StatusError is an HTTP response with status >= 400.
type StatusError struct {
	Path      string
	Code      int
	Message   string
	RequestID string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client talks to the records HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBase   = "http://127.0.0.1:7490"
	defaultUserAgent = "healthdesk/0.1"
	defaultTimeout   = 5 * time.Second
	maxErrorBody     = 4 << 10
)

// NewClient builds a Client for the API at base (host:port or a full URL).
// A non-positive timeout uses the default.
func NewClient(base string, timeout time.Duration) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalised API address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchStatus retrieves the service status summary.
func (c *Client) FetchStatus(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload StatusResponse
	if err := c.doURL(ctx, http.MethodGet, &url.URL{Path: "/api/status"}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchPage retrieves one page of resource.
func (c *Client) FetchPage(ctx context.Context, resource string, query PageQuery) (PageResponse, error) {
	if c == nil {
		return PageResponse{}, ErrNilClient
	}
	resource = strings.Trim(strings.TrimSpace(resource), "/")
	if resource == "" {
		return PageResponse{}, fmt.Errorf("resource required")
	}
	rel := &url.URL{Path: "/api/" + resource, RawQuery: query.Values().Encode()}
	var payload PageResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return PageResponse{}, err
	}
	if payload.Items == nil {
		payload.Items = []map[string]any{}
	}
	return payload, nil
}

// Values encodes the query the way the API expects it.
func (q PageQuery) Values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
	}
	if sort := strings.TrimSpace(q.Sort); sort != "" {
		values.Set("sort", sort)
		if order := strings.ToLower(strings.TrimSpace(q.Order)); order == "asc" || order == "desc" {
			values.Set("order", order)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(q.Filters)) {
		if v := strings.TrimSpace(q.Filters[key]); v != "" {
			values.Set(key, v)
		}
	}
	return values
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Path:      rel.Path,
			Code:      resp.StatusCode,
			Message:   decodeErrorBody(body),
			RequestID: requestID,
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", base)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
