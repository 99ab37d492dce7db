package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xavierca1/residence-leads/internal/entity"
	"github.com/xavierca1/residence-leads/internal/infra/database"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Driver string
	DSN    string
	Format string // "json" | "text"

	// OpenDB is replaced in tests.
	OpenDB func(driver, dsn string) (*sql.DB, error)
	// OpenRepo is replaced in tests.
	OpenRepo func(opts *RootOptions) (entity.LeadRepositoryInterface, func(), error)
	Log      logrus.FieldLogger
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the leadsctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		OpenDB:   openDB,
		OpenRepo: openRepo,
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Log == nil {
		log := logrus.New()
		log.SetOutput(os.Stderr)
		opts.Log = log
	}

	cmd := &cobra.Command{
		Use:   "leadsctl",
		Short: "Operate the residence lead inbox",
		Long:  "Run database migrations, manage the admin credential and triage leads from the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", envOr("DATABASE_DRIVER", "postgres"), "database driver (postgres|pgx)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", os.Getenv("DATABASE_URL"), "database connection string")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))
	cmd.AddCommand(NewLeadsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("no database configured: pass --dsn or set DATABASE_URL")
	}
	return database.NewDBConnection(driver, dsn, database.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
}

func openRepo(opts *RootOptions) (entity.LeadRepositoryInterface, func(), error) {
	db, err := opts.OpenDB(opts.Driver, opts.DSN)
	if err != nil {
		return nil, nil, err
	}
	return database.NewLeadRepository(db), func() { db.Close() }, nil
}
