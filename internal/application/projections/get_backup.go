package projections

import (
	"context"
	"fmt"
	"time"

	domainAttendance "gymdesk/internal/domain/attendance"
	domainClient "gymdesk/internal/domain/client"
	"gymdesk/internal/domain/exercise"
	"gymdesk/internal/domain/export"
	"gymdesk/internal/domain/membership"
	domainPayment "gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/setting"
	"gymdesk/internal/domain/workout"

	"golang.org/x/sync/errgroup"
)

// GetBackupQuery carries input for the backup projection.
type GetBackupQuery struct{}

// GetBackupDeps holds dependencies for the backup projection.
type GetBackupDeps struct {
	Clients     interface{ ListAll(context.Context) ([]domainClient.Client, error) }
	Memberships interface{ List(context.Context) ([]membership.Membership, error) }
	Payments    interface{ ListAll(context.Context) ([]domainPayment.Payment, error) }
	Attendance  interface{ ListAll(context.Context) ([]domainAttendance.Event, error) }
	Settings    interface{ List(context.Context) ([]setting.Setting, error) }

	// Optional; nil leaves the workout sections empty.
	Exercises    interface{ List(context.Context) ([]exercise.Exercise, error) }
	WorkoutPlans interface{ ListAll(context.Context) ([]workout.Plan, error) }

	Now func() time.Time
}

// QueryGetBackup reads every table into one export.Backup.
// POST: Returns a complete backup or the first read error
func QueryGetBackup(ctx context.Context, _ GetBackupQuery, deps GetBackupDeps) (export.Backup, error) {
	var (
		clients  []domainClient.Client
		plans    []membership.Membership
		payments []domainPayment.Payment
		events   []domainAttendance.Event
		settings []setting.Setting
		moves    []exercise.Exercise
		routines []workout.Plan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if clients, err = deps.Clients.ListAll(gctx); err != nil {
			return fmt.Errorf("list clients: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if plans, err = deps.Memberships.List(gctx); err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if payments, err = deps.Payments.ListAll(gctx); err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if events, err = deps.Attendance.ListAll(gctx); err != nil {
			return fmt.Errorf("list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if settings, err = deps.Settings.List(gctx); err != nil {
			return fmt.Errorf("list settings: %w", err)
		}
		return nil
	})
	if deps.Exercises != nil {
		g.Go(func() (err error) {
			if moves, err = deps.Exercises.List(gctx); err != nil {
				return fmt.Errorf("list exercises: %w", err)
			}
			return nil
		})
	}
	if deps.WorkoutPlans != nil {
		g.Go(func() (err error) {
			if routines, err = deps.WorkoutPlans.ListAll(gctx); err != nil {
				return fmt.Errorf("list workout plans: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return export.Backup{}, err
	}
	b := export.NewBackup(nowFunc(deps.Now)(), clients, plans, payments, events, settings)
	b.WithWorkouts(moves, routines)
	return b, nil
}
