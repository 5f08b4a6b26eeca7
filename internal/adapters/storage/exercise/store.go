package exercise

import (
	"context"

	domain "gymdesk/internal/domain/exercise"
)

// Store persists the exercise catalogue.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Exercise, error)
	Save(ctx context.Context, value domain.Exercise) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Exercise, error)
}
