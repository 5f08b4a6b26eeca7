package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/membership"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new membership Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a plan by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Membership, error) {
	var entity domain.Membership
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, price, duration_days FROM membership WHERE id = ?", id,
	).Scan(&entity.ID, &entity.Name, &entity.Price, &entity.DurationDays)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Membership{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return entity, err
}

// Save persists a plan (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Membership) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership (id, name, price, duration_days) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, price=excluded.price, duration_days=excluded.duration_days`,
		entity.ID, entity.Name, entity.Price, entity.DurationDays)
	return err
}

// Delete removes a plan. Clients keep their MembershipType snapshot.
// POST: Missing id returns domain.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM membership WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, sql.ErrNoRows)
	}
	return nil
}

// List returns all plans, cheapest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Membership, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, price, duration_days FROM membership ORDER BY price ASC, name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Membership
	for rows.Next() {
		var entity domain.Membership
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.Price, &entity.DurationDays); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
