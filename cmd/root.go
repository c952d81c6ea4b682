package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/logger"
	"github.com/quillgraph/quill/internal/store"
)

var (
	configPath string
	cfg        *config.Config
	log        *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "A GraphQL API for users, profiles, posts and subscriptions",
	Long: `Quill serves a GraphQL API over a relational database (SQLite or PostgreSQL).

Users have an optional profile with a membership tier, write posts and subscribe
to other users. Everything is reachable through a single GraphQL endpoint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init writes the config file, so it must not require one
		if cmd.Name() == "init" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log, err = logger.New(&cfg.Logger)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		return nil
	},
}

// openStore connects to the configured database and, when enabled, migrates and seeds it.
// The returned function closes the connection.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	db, err := store.NewDBConnection(cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	closeDB := func() {
		if err := store.CloseDB(db); err != nil {
			log.Warn("closing database", "error", err)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			closeDB()
			return nil, nil, err
		}
		log.Debug("database migrations completed")
	}
	if cfg.Database.Seed {
		if err := store.Seed(ctx, db); err != nil {
			closeDB()
			return nil, nil, err
		}
	}

	return store.New(db), closeDB, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default "+config.ConfigFile+")")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
