package cli

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/xavierca1/residence-leads/internal/infra/database"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(migrateStep(opts, "up", "Apply all pending migrations", database.MigrateUp))
	cmd.AddCommand(migrateStep(opts, "down", "Roll back the most recent migration", database.MigrateDown))
	cmd.AddCommand(migrateStep(opts, "status", "Print applied and pending migrations", database.MigrationStatus))

	return cmd
}

func migrateStep(opts *RootOptions, use, short string, fn func(db *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.OpenDB(opts.Driver, opts.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			return fn(db)
		},
	}
}
