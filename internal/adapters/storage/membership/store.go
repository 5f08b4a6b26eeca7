package membership

import (
	"context"

	domain "gymdesk/internal/domain/membership"
)

// Store persists membership plans.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Membership, error)
	Save(ctx context.Context, value domain.Membership) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Membership, error)
}
