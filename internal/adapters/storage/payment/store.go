package payment

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/payment"
)

// Store persists payments.
type Store interface {
	Save(ctx context.Context, value domain.Payment) error
	ListByClientID(ctx context.Context, clientID string) ([]domain.Payment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error)
	SumSince(ctx context.Context, since time.Time) (float64, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
}
