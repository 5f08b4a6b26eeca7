package setting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/setting"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new setting Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get reads one setting.
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key string) (domain.Setting, error) {
	entity := domain.Setting{Key: key}
	err := s.db.QueryRowContext(ctx, "SELECT value FROM system_setting WHERE key = ?", key).Scan(&entity.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Setting{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return entity, err
}

// List returns all settings ordered by key.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Setting, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM system_setting ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Setting
	for rows.Next() {
		var entity domain.Setting
		if err := rows.Scan(&entity.Key, &entity.Value); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save upserts a setting.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Setting) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO system_setting (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value",
		entity.Key, entity.Value)
	return err
}
