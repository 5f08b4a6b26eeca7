package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append records one check-in event.
// PRE: event has been validated
// POST: Event is persisted; an existing id is rejected rather than overwritten
func (s *SQLiteStore) Append(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO attendance (id, client_id, access_granted, timestamp) VALUES (?, ?, ?, ?)",
		event.ID,
		event.ClientID,
		event.AccessGranted,
		event.Timestamp.Format(time.RFC3339Nano),
	)
	return err
}

// ListRecent returns the newest events with client names.
// PRE: limit > 0
// POST: Events ordered by timestamp descending
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT a.id, a.client_id, a.access_granted, a.timestamp, c.first_name, c.last_name
		FROM attendance a
		JOIN client c ON c.id = a.client_id
		ORDER BY a.timestamp DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var entry Entry
		var ts, first, last string
		if err := rows.Scan(&entry.ID, &entry.ClientID, &entry.AccessGranted, &ts, &first, &last); err != nil {
			return nil, err
		}
		entry.Timestamp, err = parseStoredTime(ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		entry.ClientName = strings.TrimSpace(first + " " + last)
		results = append(results, entry)
	}
	return results, rows.Err()
}

// ListByClientID returns a client's events, newest first.
// PRE: clientID is non-empty; limit <= 0 means no limit
// POST: Returns events for the given client
func (s *SQLiteStore) ListByClientID(ctx context.Context, clientID string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.listEvents(ctx,
		"SELECT id, client_id, access_granted, timestamp FROM attendance WHERE client_id = ? ORDER BY timestamp DESC LIMIT ?",
		clientID, limit)
}

// ListAll returns every event, oldest first. Used by backups.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Event, error) {
	return s.listEvents(ctx, "SELECT id, client_id, access_granted, timestamp FROM attendance ORDER BY timestamp ASC")
}

func (s *SQLiteStore) listEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Event
	for rows.Next() {
		var event domain.Event
		var ts string
		if err := rows.Scan(&event.ID, &event.ClientID, &event.AccessGranted, &ts); err != nil {
			return nil, err
		}
		event.Timestamp, err = parseStoredTime(ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		results = append(results, event)
	}
	return results, rows.Err()
}

// CountSince counts events on or after the calendar day of since.
// POST: Returns count >= 0
func (s *SQLiteStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance WHERE substr(timestamp, 1, 10) >= ?",
		since.Format(domain.DateLayout)).Scan(&count)
	return count, err
}

// CountsByDay groups events from the calendar day of from onwards by day.
// POST: Keys are YYYY-MM-DD; days without events are absent
func (s *SQLiteStore) CountsByDay(ctx context.Context, from time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(timestamp, 1, 10) AS day, COUNT(*)
		FROM attendance
		WHERE substr(timestamp, 1, 10) >= ?
		GROUP BY day`,
		from.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

// parseStoredTime parses a timestamp column.
func parseStoredTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}
