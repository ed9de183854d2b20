package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listBody struct {
	Items []map[string]any `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func get(t *testing.T, srv *Server, target string) (*httptest.ResponseRecorder, listBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body listBody
	if rec.Code == http.StatusOK && strings.HasPrefix(target, "/api/") && !strings.HasPrefix(target, "/api/status") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestFixturesAreDeterministic(t *testing.T) {
	a := GenerateFixtures(7, DefaultCounts)
	b := GenerateFixtures(7, DefaultCounts)
	c := GenerateFixtures(8, DefaultCounts)

	assert.Equal(t, a["students"].Records[:5], b["students"].Records[:5])
	assert.NotEqual(t, a["students"].Records[:5], c["students"].Records[:5])
	assert.Len(t, a["students"].Records, DefaultCounts.Students)
	assert.Len(t, a, 6)
}

func TestListPaging(t *testing.T) {
	srv := New(Config{Seed: 1})

	rec, body := get(t, srv, "/api/students?page=3&limit=20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultCounts.Students, body.Total)
	require.Len(t, body.Items, 20)
	assert.EqualValues(t, 41, body.Items[0]["id"])

	_, body = get(t, srv, "/api/students?page=999&limit=20")
	assert.Empty(t, body.Items)
	assert.Equal(t, DefaultCounts.Students, body.Total)

	rec, body = get(t, srv, "/api/students?page=9223372036854775807&limit=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body.Items)
	assert.Equal(t, DefaultCounts.Students, body.Total)

	_, body = get(t, srv, "/api/students?page=abc&limit=-4")
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, defaultLimit, body.Limit)
}

func TestListSearchSortFilter(t *testing.T) {
	srv := New(Config{Seed: 1})

	_, body := get(t, srv, "/api/students?search=NGUYEN&limit=100")
	for _, item := range body.Items {
		assert.Contains(t, strings.ToLower(item["name"].(string)+" "+item["guardian"].(string)), "nguyen")
	}

	_, body = get(t, srv, "/api/students?sort=grade&order=desc&limit=100")
	for i := 1; i < len(body.Items); i++ {
		assert.GreaterOrEqual(t, body.Items[i-1]["grade"].(float64), body.Items[i]["grade"].(float64))
	}

	_, body = get(t, srv, "/api/students?status=inactive&limit=100")
	require.NotEmpty(t, body.Items)
	for _, item := range body.Items {
		assert.Equal(t, "inactive", item["status"])
	}

	_, all := get(t, srv, "/api/users?limit=100")
	_, active := get(t, srv, "/api/users?active=true&limit=100")
	_, inactive := get(t, srv, "/api/users?active=false&limit=100")
	assert.Equal(t, all.Total, active.Total+inactive.Total)
}

func TestUnknownResourceAndStatus(t *testing.T) {
	srv := New(Config{Seed: 1})

	rec, _ := get(t, srv, "/api/grades")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, srv, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Version   string         `json:"version"`
		Resources map[string]int `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, Version, status.Version)
	assert.Equal(t, DefaultCounts.Inventory, status.Resources["inventory"])
}

func TestFailRate(t *testing.T) {
	srv := New(Config{Seed: 1, FailRate: 1})
	rec, _ := get(t, srv, "/api/medications")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestParseListQueryClampsLimit(t *testing.T) {
	q := parseListQuery(url.Values{"limit": {"5000"}, "grade": {"3"}, "nope": {"x"}}, []string{"grade"})
	assert.Equal(t, maxLimit, q.Limit)
	assert.Equal(t, map[string]string{"grade": "3"}, q.Filters)
}
