package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/domain/access"
	domainAttendance "gymdesk/internal/domain/attendance"
	domainClient "gymdesk/internal/domain/client"
	domainPayment "gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/workout"

	"golang.org/x/sync/errgroup"
)

// ClientDetailAttendanceLimit caps the attendance history shown on the detail view.
const ClientDetailAttendanceLimit = 50

// GetClientDetailQuery carries query parameters.
type GetClientDetailQuery struct {
	ClientID string
}

// GetClientDetailResult carries the query result.
// Decision is nil when the stored end date cannot be read; InvalidEndDate is then true.
type GetClientDetailResult struct {
	Client         domainClient.Client
	Decision       *access.Decision
	Badge          string
	InvalidEndDate bool
	Payments       []domainPayment.Payment
	Attendance     []domainAttendance.Event
	GraceDays      int
	WorkoutPlan    *workout.Plan // nil when none is assigned
}

// GetClientDetailDeps holds dependencies for GetClientDetail.
type GetClientDetailDeps struct {
	ClientStore     ClientStore
	PaymentStore    PaymentStore
	AttendanceStore AttendanceStore
	GraceDays       GraceDaysProvider
	WorkoutStore    WorkoutPlanReader // optional; nil skips the plan
	Now             func() time.Time  // optional, defaults to time.Now
}

// QueryGetClientDetail loads one client with today's access decision, payment
// history and recent attendance.
// PRE: ClientID is non-empty
// POST: Returns client.ErrNotFound (wrapped) when the client does not exist
// INVARIANT: The decision comes from access.Evaluate; no state is written
func QueryGetClientDetail(ctx context.Context, query GetClientDetailQuery, deps GetClientDetailDeps) (GetClientDetailResult, error) {
	c, err := deps.ClientStore.GetByID(ctx, query.ClientID)
	if err != nil {
		return GetClientDetailResult{}, err
	}

	var (
		payments  []domainPayment.Payment
		events    []domainAttendance.Event
		graceDays int
		plan      *workout.Plan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = deps.PaymentStore.ListByClientID(gctx, c.ID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = deps.AttendanceStore.ListByClientID(gctx, c.ID, ClientDetailAttendanceLimit)
		if err != nil {
			return fmt.Errorf("list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		graceDays, err = deps.GraceDays.GraceDays(gctx)
		if err != nil {
			return fmt.Errorf("read grace days: %w", err)
		}
		return nil
	})
	if c.WorkoutPlanID != "" && deps.WorkoutStore != nil {
		g.Go(func() error {
			p, err := deps.WorkoutStore.GetByID(gctx, c.WorkoutPlanID)
			if errors.Is(err, workout.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load workout plan: %w", err)
			}
			plan = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GetClientDetailResult{}, err
	}

	result := GetClientDetailResult{
		Client:      c,
		Badge:       access.BadgeUnknown,
		Payments:    payments,
		Attendance:  events,
		GraceDays:   graceDays,
		WorkoutPlan: plan,
	}
	decision, err := access.Evaluate(c, graceDays, nowFunc(deps.Now)())
	switch {
	case err == nil:
		result.Decision = &decision
		result.Badge = decision.Badge()
	case errors.Is(err, access.ErrInvalidDate):
		result.InvalidEndDate = true
	default:
		return GetClientDetailResult{}, err
	}
	return result, nil
}
