package projections

import (
	"context"
	"time"

	"gymdesk/internal/adapters/storage/attendance"
	"gymdesk/internal/adapters/storage/client"
	domainAttendance "gymdesk/internal/domain/attendance"
	domainClient "gymdesk/internal/domain/client"
	domainPayment "gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/workout"
)

// ClientStore interface for client queries.
type ClientStore interface {
	GetByID(ctx context.Context, id string) (domainClient.Client, error)
	List(ctx context.Context, filter client.ListFilter) ([]domainClient.Client, error)
	Count(ctx context.Context, filter client.ListFilter) (int, error)
}

// PaymentStore interface for payment queries.
type PaymentStore interface {
	ListByClientID(ctx context.Context, clientID string) ([]domainPayment.Payment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domainPayment.Payment, error)
	SumSince(ctx context.Context, since time.Time) (float64, error)
}

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	ListRecent(ctx context.Context, limit int) ([]attendance.Entry, error)
	ListByClientID(ctx context.Context, clientID string, limit int) ([]domainAttendance.Event, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountsByDay(ctx context.Context, from time.Time) (map[string]int, error)
}

// GraceDaysProvider supplies the configured grace period; read per query.
type GraceDaysProvider interface {
	GraceDays(ctx context.Context) (int, error)
}

// WorkoutPlanReader loads one workout plan with its exercises.
type WorkoutPlanReader interface {
	GetByID(ctx context.Context, id string) (workout.Plan, error)
}

func nowFunc(now func() time.Time) func() time.Time {
	if now != nil {
		return now
	}
	return time.Now
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
