package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillgraph/quill/internal/store"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Creates the tables, indexes and foreign keys the API needs and, with --seed,
inserts the BASIC and BUSINESS member types. Running it again is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.NewDBConnection(cfg.Database, log)
		if err != nil {
			return fmt.Errorf("failed to create db connection: %w", err)
		}
		defer func() { _ = store.CloseDB(db) }()

		if err := store.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		if migrateSeed {
			if err := store.Seed(cmd.Context(), db); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.Database.Type)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", true, "Insert the default member types")
	rootCmd.AddCommand(migrateCmd)
}
