package store_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimstream/stream-ops-service/internal/store"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*store.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := store.NewClient(store.Config{
		Endpoint:   srv.URL,
		ProjectID:  "proj-1",
		DatabaseID: "db-1",
		APIKey:     "secret",
	}, zerolog.New(io.Discard))
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_Validation(t *testing.T) {
	log := zerolog.New(io.Discard)

	_, err := store.NewClient(store.Config{ProjectID: "p", DatabaseID: "d"}, log)
	assert.Error(t, err)

	_, err = store.NewClient(store.Config{Endpoint: "http://x", DatabaseID: "d"}, log)
	assert.Error(t, err)

	_, err = store.NewClient(store.Config{Endpoint: "http://x", ProjectID: "p"}, log)
	assert.Error(t, err)
}

func TestClient_ListDocuments(t *testing.T) {
	var gotPath string
	var gotQueries []string
	var gotProject, gotKey string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQueries = r.URL.Query()["queries[]"]
		gotProject = r.Header.Get("X-Project-ID")
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 2,
			"documents": []map[string]any{
				{"$id": "t1", "name": "Dynamos"},
				{"$id": "t2", "name": "Highlanders"},
			},
		})
	})

	raws, err := client.ListDocuments(context.Background(), "teams", store.Query{
		Filters: []store.Filter{store.Equal("leagueId", "league-1")},
		Order:   []store.Order{store.OrderAsc("name")},
	})
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	assert.Equal(t, "/databases/db-1/collections/teams/documents", gotPath)
	require.Len(t, gotQueries, 2)
	assert.Equal(t, `equal("leagueId", ["league-1"])`, gotQueries[0])
	assert.Equal(t, `orderAsc("name")`, gotQueries[1])
	assert.Equal(t, "proj-1", gotProject)
	assert.Equal(t, "secret", gotKey)
}

func TestClient_CreateDocumentAssignsID(t *testing.T) {
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"$id": gotBody["documentId"], "name": "PSL",
		})
	})

	raw, err := client.CreateDocument(context.Background(), "leagues", "", map[string]any{"name": "PSL"})
	require.NoError(t, err)

	// An empty id is replaced with a generated one before the request.
	assert.NotEmpty(t, gotBody["documentId"])
	assert.Equal(t, map[string]any{"name": "PSL"}, gotBody["data"])

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, gotBody["documentId"], doc["$id"])
}

func TestClient_UpdateDocument(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/databases/db-1/collections/channels/documents/ch-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"$id": "ch-1", "isLive": true})
	})

	raw, err := client.UpdateDocument(context.Background(), "channels", "ch-1", map[string]any{"isLive": true})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isLive":true`)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"not found", http.StatusNotFound, store.ErrNotFound},
		{"conflict", http.StatusConflict, store.ErrConflict},
		{"unauthorized", http.StatusUnauthorized, store.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, store.ErrUnauthorized},
		{"server error", http.StatusInternalServerError, store.ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, store.ErrUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"type": "test_error", "message": "boom",
				})
			})

			err := client.DeleteDocument(context.Background(), "leagues", "l1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			var apiErr *store.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, "boom", apiErr.Message)
		})
	}
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteDocument(context.Background(), "leagues", "l1")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)

	var apiErr *store.APIError
	require.ErrorAs(t, err, &apiErr)
	// Falls back to the HTTP status text when the body carries no message.
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestClient_Ping(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "/health", gotPath)
}
