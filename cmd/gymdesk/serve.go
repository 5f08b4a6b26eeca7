package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"gymdesk/internal/adapters/announce"
	emailAdapter "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/reminders"
	"gymdesk/internal/adapters/storage"
	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	clientStore "gymdesk/internal/adapters/storage/client"
	exerciseStore "gymdesk/internal/adapters/storage/exercise"
	membershipStore "gymdesk/internal/adapters/storage/membership"
	paymentStore "gymdesk/internal/adapters/storage/payment"
	settingStore "gymdesk/internal/adapters/storage/setting"
	workoutStore "gymdesk/internal/adapters/storage/workout"
	"gymdesk/internal/application/orchestrators"
)

// shutdownTimeout bounds how long in-flight requests get on SIGTERM.
const shutdownTimeout = 15 * time.Second

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server, kiosk and reminder scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.serve(cmd.Context())
		},
	}
}

func (e *env) serve(ctx context.Context) error {
	cfg := e.cfg
	db, err := e.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	stores := &web.Stores{
		ClientStore:     clientStore.NewSQLiteStore(timedDB),
		MembershipStore: membershipStore.NewSQLiteStore(timedDB),
		PaymentStore:    paymentStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		SettingStore:    settingStore.NewSQLiteStore(timedDB),
		ExerciseStore:   exerciseStore.NewSQLiteStore(timedDB),
		WorkoutStore:    workoutStore.NewSQLiteStore(timedDB),
	}

	var sender emailAdapter.Sender
	if cfg.ResendKey != "" {
		sender = emailAdapter.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("startup_event", "event", "email_sender_configured", "provider", "resend")
	} else {
		sender = emailAdapter.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("startup_event", "event", "email_disabled", "reason", "GYMDESK_RESEND_KEY is not set")
		}
	}

	var scheduler *reminders.Scheduler
	if cfg.ReminderSchedule != "" {
		remDeps := orchestrators.SendRemindersDeps{
			Clients:   stores.ClientStore,
			Sender:    sender,
			GraceDays: orchestrators.SettingsGraceDays{Store: stores.SettingStore},
			GymName:   cfg.GymName,
			From:      cfg.EmailFrom,
			ReplyTo:   cfg.ReplyTo,
		}
		scheduler, err = reminders.NewScheduler(cfg.ReminderSchedule, time.Local, func(ctx context.Context) error {
			_, err := orchestrators.ExecuteSendReminders(ctx, remDeps)
			return err
		})
		if err != nil {
			return err
		}
		if err := scheduler.Start(); err != nil {
			return err
		}
	}

	opts := web.Options{
		Collector:        collector,
		Announcer:        announce.Log{},
		SecureCookies:    cfg.IsProduction(),
		SlowRequestMs:    cfg.SlowRequestMs,
		GymName:          cfg.GymName,
		PhoneCountryCode: cfg.PhoneCountryCode,
		Ping:             db.PingContext,
	}
	if cfg.CSRFKey != "" {
		opts.CSRFKey = []byte(cfg.CSRFKey)
	}
	if cfg.RateLimit > 0 && cfg.RateBurst > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		go limiter.Run(ctx)
		opts.RateLimiter = limiter
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewMux(stores, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("startup_event", "event", "listening",
			"addr", cfg.Addr, "version", version, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if scheduler != nil {
			scheduler.Stop(context.Background())
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	slog.Info("shutdown_event", "event", "shutdown_started")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("shutdown_event", "event", "shutdown_complete")
	return nil
}
