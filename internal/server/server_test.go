package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/graph"
	"github.com/quillgraph/quill/internal/metrics"
	"github.com/quillgraph/quill/internal/store"
)

func setupTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := store.NewDBConnection(config.DatabaseConfig{Type: config.SqliteDbType, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.CloseDB(db) })
	require.NoError(t, store.Migrate(context.Background(), db))
	require.NoError(t, store.Seed(context.Background(), db))

	s := store.New(db)
	m := metrics.New()
	cfg := config.Default()
	exec := graph.NewExecutor(&graph.Resolver{Store: s}, cfg.GraphQL, m)

	return NewRouter(cfg.Server, Dependencies{Executor: exec, Store: s, Metrics: m}), db
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGraphQLEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, path := range []string{"/", "/graphql"} {
		t.Run(path, func(t *testing.T) {
			w := post(t, r, path, `{"query": "{ memberTypes { id } }"}`)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"data":{"memberTypes":[{"id":"BASIC"},{"id":"BUSINESS"}]}}`, w.Body.String())
		})
	}
}

func TestGraphQLVariables(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := post(t, r, "/", `{
		"query": "mutation Create($dto: CreateUserInput!) { createUser(dto: $dto) { name balance } }",
		"variables": {"dto": {"name": "A", "balance": 10}},
		"operationName": "Create"
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"createUser":{"name":"A","balance":10}}}`, w.Body.String())
}

func TestGraphQLErrorsAreStatus200(t *testing.T) {
	r, _ := setupTestRouter(t)

	t.Run("syntax error", func(t *testing.T) {
		w := post(t, r, "/", `{"query": "{ users { id "}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Nil(t, body["data"])
		assert.NotEmpty(t, body["errors"])
	})

	t.Run("depth limit", func(t *testing.T) {
		w := post(t, r, "/", `{"query": "{ users { posts { author { profile { memberType { profiles { id } } } } } } }"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data   json.RawMessage `json:"data"`
			Errors []struct {
				Message    string           `json:"message"`
				Locations  []map[string]int `json:"locations"`
				Extensions map[string]any   `json:"extensions"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "null", string(body.Data))
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "'' exceeds maximum operation depth of 5", body.Errors[0].Message)
		assert.Equal(t, graph.ErrDepthLimit, body.Errors[0].Extensions["code"])
		assert.NotEmpty(t, body.Errors[0].Locations)
	})
}

func TestGraphQLBadRequest(t *testing.T) {
	r, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"query": `},
		{"missing query", `{"variables": {}}`},
		{"empty query", `{"query": ""}`},
		{"unknown field", `{"query": "{ users { id } }", "extra": true}`},
		{"unknown field after variables", `{"query": "{ users { id } }", "variables": {}, "operation": "A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, r, "/", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Len(t, body.Errors, 1)
			assert.NotEmpty(t, body.Errors[0].Message)
		})
	}
}

func TestStrictDecodingIsLocal(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := post(t, r, "/", `{"query": "{ users { id } }", "extra": true}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// other gin handlers keep the default lenient binding
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, binding.JSON.BindBody([]byte(`{"name": "a", "extra": true}`), &v))
	assert.Equal(t, "a", v.Name)
}

func TestPlayground(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<html")
}

func TestHealth(t *testing.T) {
	r, db := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	require.NoError(t, store.CloseDB(db))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)
	post(t, r, "/", `{"query": "{ users { id } }"}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `quill_graphql_operations_total{operation="query",outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `quill_graphql_resolver_duration_seconds_count{field="Query.users"} 1`)
}

func TestRoutesHonourConfig(t *testing.T) {
	cfg := config.Default().Server
	cfg.Playground = false
	cfg.Metrics = false

	db, err := store.NewDBConnection(config.DatabaseConfig{Type: config.SqliteDbType, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.CloseDB(db) })
	r := NewRouter(cfg, Dependencies{Store: store.New(db), Metrics: metrics.New()})

	for _, path := range []string{"/graphql", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "http://client.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
