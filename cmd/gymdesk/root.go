package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/config"
)

// env carries what every subcommand needs after the root pre-run.
type env struct {
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var dbPath string

	root := &cobra.Command{
		Use:           "gymdesk",
		Short:         "Gym front-desk check-in and membership server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			slog.SetDefault(slog.New(cfg.NewLogHandler(os.Stderr)))
			e.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides GYMDESK_DB_PATH)")

	root.AddCommand(
		newServeCmd(e),
		newMigrateCmd(e),
		newExportCmd(e),
		newEvaluateCmd(e),
	)
	return root
}

// openDB opens the configured database and brings its schema up to date.
func (e *env) openDB() (*sql.DB, error) {
	db, err := storage.Open(e.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", e.cfg.DBPath, err)
	}
	return db, nil
}
