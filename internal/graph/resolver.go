package graph

//go:generate go run github.com/99designs/gqlgen generate

import (
	"context"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/logger"
	"github.com/quillgraph/quill/internal/store"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds a reference to store.Store for data access.
type Resolver struct {
	Store  *store.Store
	Logger *slog.Logger
}

func (r *Resolver) log() *slog.Logger {
	if r.Logger == nil {
		return logger.Discard()
	}
	return r.Logger
}

// Schema returns the parsed SDL the executor serves.
func Schema() *ast.Schema {
	return NewExecutableSchema(Config{}).Schema()
}

// NewExecutor builds an executor serving r with the limits from cfg. Extra extensions, such
// as the metrics collector, are used after the built-in ones.
func NewExecutor(r *Resolver, cfg config.GraphQLConfig, exts ...graphql.HandlerExtension) *executor.Executor {
	exec := executor.New(NewExecutableSchema(Config{Resolvers: r}))
	exec.Use(extension.Introspection{})
	if cfg.MaxDepth > 0 {
		exec.Use(DepthLimit{Max: cfg.MaxDepth})
	}
	for _, ext := range exts {
		exec.Use(ext)
	}
	cacheSize := cfg.QueryCacheSize
	if cacheSize <= 0 {
		cacheSize = 1000
	}
	exec.SetQueryCache(lru.New[*ast.QueryDocument](cacheSize))
	exec.SetErrorPresenter(r.presentError)
	exec.SetRecoverFunc(r.recoverPanic)
	return exec
}

// Execute runs one operation on exec and returns its response. Requests that fail parsing,
// validation or the depth limit are answered with their errors and no data.
func Execute(ctx context.Context, exec *executor.Executor, params *graphql.RawParams) *graphql.Response {
	ctx = graphql.StartOperationTrace(ctx)
	if params.ReadTime.Start.IsZero() {
		now := graphql.Now()
		params.ReadTime = graphql.TraceTiming{Start: now, End: now}
	}

	opCtx, errs := exec.CreateOperationContext(ctx, params)
	if errs != nil {
		return exec.DispatchError(graphql.WithOperationContext(ctx, opCtx), errs)
	}

	ctx = graphql.WithOperationContext(ctx, opCtx)
	handler, ctx := exec.DispatchOperation(ctx, opCtx)
	return handler(ctx)
}
