package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillgraph/quill/internal/graph"
	"github.com/quillgraph/quill/internal/metrics"
	"github.com/quillgraph/quill/internal/server"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at / and /graphql (POST)
  - GraphQL Playground at /graphql (GET) for interactive queries
  - Health check at /health
  - Prometheus metrics at /metrics

Examples:
  # Start server with the settings from quill.toml
  quill serve

  # Start server on a custom address
  quill serve --address :3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}
		return runServer()
	},
}

func runServer() error {
	// Set up signal handling with context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	exec := graph.NewExecutor(&graph.Resolver{Store: s, Logger: log}, cfg.GraphQL, m)

	router := server.NewRouter(cfg.Server, server.Dependencies{
		Executor: exec,
		Store:    s,
		Metrics:  m,
		Logger:   log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	// Channel to listen for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("starting server", "address", cfg.Server.Address, "database", cfg.Database.Type)
		if cfg.Server.Playground {
			log.Info("graphql playground enabled", "path", "/graphql")
		}
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")

		// Create context with timeout for graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
	}

	return nil
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "Address to listen on (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}
