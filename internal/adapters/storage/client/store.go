package client

import (
	"context"

	domain "gymdesk/internal/domain/client"
)

// Store persists Client state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Client, error)
	GetByEmail(ctx context.Context, email string) (domain.Client, error)
	GetByCedula(ctx context.Context, cedula string) (domain.Client, error)
	GetByFingerprintID(ctx context.Context, fingerprintID string) (domain.Client, error)
	Save(ctx context.Context, value domain.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Client, error)
	ListAll(ctx context.Context) ([]domain.Client, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Status string
	Sort   string
	Dir    string
}
