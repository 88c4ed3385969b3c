package main

import (
	"fmt"

	"github.com/aussiebroadwan/tokenauth/internal/auth/app"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store/drivers/sqlite"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(func(db *sqlite.Store) error {
					return printVersion(cmd, db)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping all data",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(func(db *sqlite.Store) error {
					if err := db.MigrateDown(); err != nil {
						return fmt.Errorf("migrate down: %w", err)
					}
					return printVersion(cmd, db)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(func(db *sqlite.Store) error {
					return printVersion(cmd, db)
				})
			},
		},
	)
	return cmd
}

// withDatabase opens the configured database, which applies pending
// migrations, and closes it once fn returns.
func withDatabase(fn func(db *sqlite.Store) error) error {
	cfg := app.LoadConfig()
	db, err := app.OpenDatabase(cfg, app.NewLogger(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(db)
}

func printVersion(cmd *cobra.Command, db *sqlite.Store) error {
	v, dirty, err := db.MigrationVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
	return err
}
