package payment

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/payment"
)

// dateLayout is fixed-width UTC so stored dates compare correctly as text.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a payment (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment (id, client_id, amount, concept, date) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET amount=excluded.amount, concept=excluded.concept, date=excluded.date`,
		entity.ID, entity.ClientID, entity.Amount, entity.Concept, formatDate(entity.Date))
	return err
}

// ListByClientID returns a client's payments, newest first.
func (s *SQLiteStore) ListByClientID(ctx context.Context, clientID string) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT id, client_id, amount, concept, date FROM payment WHERE client_id = ? ORDER BY date DESC", clientID)
}

// ListBetween returns payments dated in [from, to), oldest first.
func (s *SQLiteStore) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT id, client_id, amount, concept, date FROM payment WHERE date >= ? AND date < ? ORDER BY date ASC",
		formatDate(from), formatDate(to))
}

// ListAll returns every payment, oldest first. Used by backups.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT id, client_id, amount, concept, date FROM payment ORDER BY date ASC")
}

// SumSince totals payments dated on or after since.
// POST: Returns 0 when there are none
func (s *SQLiteStore) SumSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payment WHERE date >= ?",
		formatDate(since)).Scan(&total)
	return total, err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		var entity domain.Payment
		var date string
		if err := rows.Scan(&entity.ID, &entity.ClientID, &entity.Amount, &entity.Concept, &date); err != nil {
			return nil, err
		}
		entity.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment date: %w", err)
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
