// Package server exposes the GraphQL executor over HTTP with gin.
package server

import (
	"log/slog"
	"slices"
	"time"

	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/metrics"
	"github.com/quillgraph/quill/internal/store"
)

// Dependencies are the components the routes are served from. Metrics may be nil.
type Dependencies struct {
	Executor *executor.Executor
	Store    *store.Store
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewRouter builds the HTTP handler for cfg.
func NewRouter(cfg config.ServerConfig, deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(deps.Logger), cors.New(corsConfig(cfg.CORSOrigins)))

	SetupRoutes(r, cfg, deps)
	return r
}

// SetupRoutes registers the GraphQL, health and metrics routes on r.
func SetupRoutes(r *gin.Engine, cfg config.ServerConfig, deps Dependencies) {
	gql := NewGraphQLHandler(deps.Executor, deps.Logger)
	r.POST("/", gql.Execute)
	r.POST("/graphql", gql.Execute)
	if cfg.Playground {
		r.GET("/graphql", gin.WrapH(playground.Handler("Quill GraphQL", "/graphql")))
	}

	health := NewHealthHandler(deps.Store)
	r.GET("/health", health.Check)

	if cfg.Metrics && deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
