package exercise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/exercise"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new exercise Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an exercise by its ID.
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Exercise, error) {
	var e domain.Exercise
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, muscle_group, video_url FROM exercise WHERE id = ?", id,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.VideoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exercise{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return e, err
}

// Save persists an exercise (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, e domain.Exercise) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise (id, name, muscle_group, video_url) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, muscle_group=excluded.muscle_group, video_url=excluded.video_url`,
		e.ID, e.Name, e.MuscleGroup, e.VideoURL)
	return err
}

// Delete removes an exercise.
// POST: Missing id returns domain.ErrNotFound; an exercise still listed in a
// workout plan returns domain.ErrInUse and is kept
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM exercise WHERE id = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return domain.ErrInUse
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, sql.ErrNoRows)
	}
	return nil
}

// List returns the catalogue ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, muscle_group, video_url FROM exercise ORDER BY name COLLATE NOCASE, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.VideoURL); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
