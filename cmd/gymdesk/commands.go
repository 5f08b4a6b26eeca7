package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"gymdesk/internal/adapters/storage"
	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	clientStore "gymdesk/internal/adapters/storage/client"
	exerciseStore "gymdesk/internal/adapters/storage/exercise"
	membershipStore "gymdesk/internal/adapters/storage/membership"
	paymentStore "gymdesk/internal/adapters/storage/payment"
	settingStore "gymdesk/internal/adapters/storage/setting"
	workoutStore "gymdesk/internal/adapters/storage/workout"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/export"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			v, err := storage.SchemaVersion(db)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of every client, plan, payment and check-in",
		Long: "Writes a JSON backup to --out (stdout when empty), or one CSV file per " +
			"section into the --out directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !export.ValidFormat(format) {
				return fmt.Errorf("%w: %q", export.ErrInvalidFormat, format)
			}
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			backup, err := projections.QueryGetBackup(cmd.Context(), projections.GetBackupQuery{}, projections.GetBackupDeps{
				Clients:     clientStore.NewSQLiteStore(db),
				Memberships: membershipStore.NewSQLiteStore(db),
				Payments:    paymentStore.NewSQLiteStore(db),
				Attendance:  attendanceStore.NewSQLiteStore(db),
				Settings:    settingStore.NewSQLiteStore(db),

				Exercises:    exerciseStore.NewSQLiteStore(db),
				WorkoutPlans: workoutStore.NewSQLiteStore(db),
			})
			if err != nil {
				return err
			}

			if format == export.FormatJSON {
				data, err := backup.ToJSON()
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				return os.WriteFile(out, data, 0o600)
			}

			if out == "" {
				out = "."
			}
			if err := os.MkdirAll(out, 0o750); err != nil {
				return err
			}
			sections, err := backup.ToCSV()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(sections))
			for name := range sections {
				names = append(names, name)
			}
			sort.Strings(names)
			stamp := backup.Metadata.ExportDate.Format("20060102-150405")
			for _, name := range names {
				path := filepath.Join(out, fmt.Sprintf("gymdesk-%s-%s.csv", name, stamp))
				if err := os.WriteFile(path, sections[name], 0o600); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "Backup format: json or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (json) or directory (csv)")
	return cmd
}

func newEvaluateCmd(e *env) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "evaluate IDENTIFIER",
		Short: "Show the access decision for a client without recording a check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now
			if at != "" {
				day, err := access.ParseDate(at, time.Local)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = func() time.Time { return day }
			}
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			c, decision, err := orchestrators.ExecuteEvaluateClient(cmd.Context(),
				orchestrators.EvaluateClientInput{Identifier: args[0]},
				orchestrators.EvaluateClientDeps{
					ClientStore: clientStore.NewSQLiteStore(db),
					GraceDays:   orchestrators.SettingsGraceDays{Store: settingStore.NewSQLiteStore(db)},
					Now:         now,
				})
			if errors.Is(err, orchestrators.ErrClientNotFound) {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s (%s)\n", c.FullName(), c.ID)
			_, _ = fmt.Fprintf(w, "  end date:  %s\n", c.EndDate)
			_, _ = fmt.Fprintf(w, "  status:    %s\n", c.Status)
			_, _ = fmt.Fprintf(w, "  decision:  %s\n", decision.Label)
			_, _ = fmt.Fprintf(w, "  granted:   %t\n", decision.AccessGranted)
			_, _ = fmt.Fprintf(w, "  message:   %s\n", decision.Message())
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Evaluate as of this date (YYYY-MM-DD) instead of today")
	return cmd
}
