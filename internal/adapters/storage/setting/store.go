package setting

import (
	"context"

	domain "gymdesk/internal/domain/setting"
)

// Store persists key/value system settings.
type Store interface {
	Get(ctx context.Context, key string) (domain.Setting, error)
	List(ctx context.Context) ([]domain.Setting, error)
	Save(ctx context.Context, value domain.Setting) error
}
