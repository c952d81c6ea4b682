package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/gin-gonic/gin"

	"github.com/quillgraph/quill/internal/graph"
	"github.com/quillgraph/quill/internal/logger"
)

// GraphQLRequest is the body of a GraphQL POST.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
	Extensions    map[string]any `json:"extensions"`
}

// ErrorMessage is one entry of an error response produced before execution.
type ErrorMessage struct {
	Message string `json:"message"`
}

// ErrorResponse is returned when the request body cannot be decoded.
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

var errMissingQuery = errors.New("query is required")

// GraphQLHandler serves GraphQL requests.
type GraphQLHandler struct {
	exec *executor.Executor
	log  *slog.Logger
}

// NewGraphQLHandler creates a handler executing against exec.
func NewGraphQLHandler(exec *executor.Executor, log *slog.Logger) *GraphQLHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &GraphQLHandler{exec: exec, log: log}
}

// Execute handles POST requests. GraphQL errors are reported in the body with status 200;
// only a body that cannot be decoded gets a 400.
func (h *GraphQLHandler) Execute(c *gin.Context) {
	start := graphql.Now()
	req, err := decodeRequest(c.Request)
	if err != nil {
		h.log.DebugContext(c.Request.Context(), "rejected graphql request", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Errors: []ErrorMessage{{Message: "invalid request body: " + err.Error()}},
		})
		return
	}

	resp := graph.Execute(c.Request.Context(), h.exec, &graphql.RawParams{
		Query:         req.Query,
		OperationName: req.OperationName,
		Variables:     req.Variables,
		Extensions:    req.Extensions,
		Headers:       c.Request.Header,
		ReadTime:      graphql.TraceTiming{Start: start, End: graphql.Now()},
	})
	c.JSON(http.StatusOK, resp)
}

// decodeRequest reads a GraphQL body, rejecting unknown members.
func decodeRequest(r *http.Request) (*GraphQLRequest, error) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var req GraphQLRequest
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	if req.Query == "" {
		return nil, errMissingQuery
	}
	return &req, nil
}
