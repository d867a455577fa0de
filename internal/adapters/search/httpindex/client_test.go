package httpindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescue-office/internal/ports/search"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return c, srv
}

func TestSaveSendsRecord(t *testing.T) {
	var gotPath, gotKey string
	var gotBody saveRequest

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := c.Save(context.Background(), search.IndexAnimals, search.Record{
		ID:     "animal-1",
		Fields: map[string]any{"name": "Misha", "species": "cat"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/indexes/animals/records/animal-1", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Misha", gotBody.Fields["name"])
}

func TestDeleteTolerates404(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	err := c.Delete(context.Background(), search.IndexAnimals, "gone")
	assert.NoError(t, err)
}

func TestSaveUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.Save(context.Background(), search.IndexAnimals, search.Record{ID: "animal-1"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSearchParsesHits(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/foster_families/search", r.URL.Path)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dupont", req.Query)
		assert.Equal(t, "paris", req.Filters["city"])

		_ = json.NewEncoder(w).Encode(searchResponse{Hits: []searchHit{
			{ID: "ff-1", Fields: map[string]any{"display_name": "Famille Dupont"}},
		}})
	})

	recs, err := c.Search(context.Background(), search.IndexFosterFamilies, "dupont", map[string]string{"city": "paris"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ff-1", recs[0].ID)
}

func TestNotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)

	assert.False(t, c.IsConfigured())
	assert.ErrorIs(t, c.Save(context.Background(), search.IndexAnimals, search.Record{ID: "x"}), ErrNotConfigured)
}
