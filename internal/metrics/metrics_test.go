package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/quillgraph/quill/internal/graph"
)

func withOperation(op ast.Operation) context.Context {
	opCtx := &graphql.OperationContext{}
	if op != "" {
		opCtx.Operation = &ast.OperationDefinition{Operation: op}
	}
	return graphql.WithOperationContext(context.Background(), opCtx)
}

func respond(resp *graphql.Response) graphql.ResponseHandler {
	return func(context.Context) *graphql.Response { return resp }
}

func TestInterceptResponse(t *testing.T) {
	m := New()
	data := json.RawMessage(`{"users":[]}`)

	m.InterceptResponse(withOperation(ast.Query), respond(&graphql.Response{Data: data}))
	m.InterceptResponse(withOperation(ast.Query), respond(&graphql.Response{Data: data}))
	m.InterceptResponse(withOperation(ast.Mutation), respond(&graphql.Response{
		Data:   json.RawMessage(`{"deleteUser":null}`),
		Errors: gqlerror.List{{Message: "User not found"}},
	}))

	depthErr := &gqlerror.Error{
		Message:    "'' exceeds maximum operation depth of 5",
		Extensions: map[string]any{"code": graph.ErrDepthLimit},
	}
	m.InterceptResponse(withOperation(""), respond(&graphql.Response{Errors: gqlerror.List{depthErr}}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("query", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mutation", "field_errors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("unknown", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.depthRejections))
}

func TestInterceptField(t *testing.T) {
	m := New()
	ctx := graphql.WithFieldContext(context.Background(), &graphql.FieldContext{
		Object:     "Query",
		Field:      graphql.CollectedField{Field: &ast.Field{Name: "users"}},
		IsResolver: true,
	})

	_, err := m.InterceptField(ctx, func(context.Context) (any, error) { return "ok", nil })
	require.NoError(t, err)
	_, err = m.InterceptField(ctx, func(context.Context) (any, error) { return nil, errors.New("boom") })
	require.Error(t, err)

	plain := graphql.WithFieldContext(context.Background(), &graphql.FieldContext{
		Object: "UserType",
		Field:  graphql.CollectedField{Field: &ast.Field{Name: "name"}},
	})
	res, err := m.InterceptField(plain, func(context.Context) (any, error) { return "Ada", nil })
	require.NoError(t, err)
	assert.Equal(t, "Ada", res)

	assert.Equal(t, 1, testutil.CollectAndCount(m.resolverDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolverErrors.WithLabelValues("Query.users")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.InterceptResponse(withOperation(ast.Query), respond(&graphql.Response{Data: json.RawMessage(`{}`)}))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quill_graphql_operations_total{operation="query",outcome="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
