package attendance

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/attendance"
)

// Store persists check-in events. It is append-only: there is no update or
// single-event delete; events go away only with their client.
type Store interface {
	Append(ctx context.Context, event domain.Event) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	ListByClientID(ctx context.Context, clientID string, limit int) ([]domain.Event, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountsByDay(ctx context.Context, from time.Time) (map[string]int, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
}

// Entry is an event joined with the client's name for activity feeds.
type Entry struct {
	domain.Event
	ClientName string
}
