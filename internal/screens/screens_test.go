package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/table"
)

type stubSource struct {
	resource string
	query    api.PageQuery
	err      error
}

func (s *stubSource) FetchPage(_ context.Context, resource string, q api.PageQuery) (api.PageResponse, error) {
	s.resource, s.query = resource, q
	if s.err != nil {
		return api.PageResponse{}, s.err
	}
	return api.PageResponse{Items: []map[string]any{{"id": float64(1)}, {"id": float64(2)}}, Total: 42}, nil
}

func TestScreensAreUniqueAndComplete(t *testing.T) {
	ids := map[string]bool{}
	keys := map[string]bool{}
	for _, s := range All() {
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		assert.False(t, keys[s.Hotkey], "duplicate hotkey %s", s.Hotkey)
		ids[s.ID], keys[s.Hotkey] = true, true
		assert.NotEmpty(t, s.Columns, s.ID)
		assert.NotEmpty(t, s.Resource, s.ID)
	}
	assert.Len(t, ids, 6)
}

func TestFind(t *testing.T) {
	s, ok := Find("/medications")
	require.True(t, ok)
	assert.Equal(t, "Medications", s.Title)

	_, ok = Find("grades")
	assert.False(t, ok)
}

func TestFetcherTranslatesRequest(t *testing.T) {
	src := &stubSource{}
	fetch := Fetcher(src, "students")

	page, err := fetch(context.Background(), table.Request{
		Page:     3,
		PageSize: 20,
		Search:   "nguyen",
		Sort:     table.Sort{Column: "dob", Direction: table.SortDescending},
		Filters:  map[string]string{"status": "active"},
		Reload:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "students", src.resource)
	assert.Equal(t, api.PageQuery{
		Page: 3, Limit: 20, Search: "nguyen", Sort: "dob", Order: "desc",
		Filters: map[string]string{"status": "active"}, Reload: true,
	}, src.query)
	assert.Equal(t, 42, page.TotalRecords)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "2", page.Rows[1].String("id"))
}

func TestFetcherUnsortedAndErrors(t *testing.T) {
	src := &stubSource{err: errors.New("boom")}
	_, err := Fetcher(src, "users")(context.Background(), table.Request{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.Empty(t, src.query.Sort)
	assert.Empty(t, src.query.Order)
}

func TestQuantityCell(t *testing.T) {
	assert.Equal(t, "3 !", quantityCell(table.Row{"quantity": float64(3), "status": "low"}))
	assert.Equal(t, "90", quantityCell(table.Row{"quantity": float64(90), "status": "ok"}))
}
