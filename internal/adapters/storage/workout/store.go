package workout

import (
	"context"

	domain "gymdesk/internal/domain/workout"
)

// Store persists workout plans with their ordered exercises.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	Save(ctx context.Context, value domain.Plan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Plan, error)
	ListAll(ctx context.Context) ([]domain.Plan, error)
}
