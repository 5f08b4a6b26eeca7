package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/workout"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new workout plan Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const itemColumns = `SELECT pe.plan_id, pe.exercise_id, pe.sets, pe.reps, pe.weight, pe.rest_time, pe.notes, e.name, e.muscle_group
	FROM workout_plan_exercise pe JOIN exercise e ON e.id = pe.exercise_id`

// GetByID retrieves a plan with its exercises in order.
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	var p domain.Plan
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, duration, level, description FROM workout_plan WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Duration, &p.Level, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Plan{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	if err != nil {
		return domain.Plan{}, err
	}
	items, err := s.items(ctx, itemColumns+" WHERE pe.plan_id = ? ORDER BY pe.position", id)
	if err != nil {
		return domain.Plan{}, err
	}
	p.Items = items[id]
	p.ExerciseCount = len(p.Items)
	return p, nil
}

// Save persists a plan and replaces its exercise list in one transaction.
// PRE: entity has been normalized and validated
// POST: An exercise id missing from the catalogue returns
// domain.ErrUnknownExercise and nothing is written
func (s *SQLiteStore) Save(ctx context.Context, p domain.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workout_plan (id, name, duration, level, description) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, duration=excluded.duration, level=excluded.level, description=excluded.description`,
		p.ID, p.Name, p.Duration, p.Level, p.Description)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM workout_plan_exercise WHERE plan_id = ?", p.ID); err != nil {
		return err
	}
	for i, it := range p.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO workout_plan_exercise (plan_id, position, exercise_id, sets, reps, weight, rest_time, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, it.ExerciseID, it.Sets, it.Reps, it.Weight, it.RestTime, it.Notes)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return fmt.Errorf("%w: %s", domain.ErrUnknownExercise, it.ExerciseID)
			}
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a plan and unassigns it from every client.
// POST: Missing id returns domain.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM workout_plan WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, sql.ErrNoRows)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE client SET workout_plan_id = NULL WHERE workout_plan_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns plans by name with ExerciseCount set and Items left empty.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT p.id, p.name, p.duration, p.level, p.description,
		(SELECT COUNT(*) FROM workout_plan_exercise pe WHERE pe.plan_id = p.id)
		FROM workout_plan p ORDER BY p.name COLLATE NOCASE, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Duration, &p.Level, &p.Description, &p.ExerciseCount); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// ListAll returns every plan with its exercises, for exports.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.items(ctx, itemColumns+" ORDER BY pe.plan_id, pe.position")
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].Items = items[plans[i].ID]
	}
	return plans, nil
}

func (s *SQLiteStore) items(ctx context.Context, query string, args ...any) (map[string][]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Item)
	for rows.Next() {
		var planID string
		var it domain.Item
		if err := rows.Scan(&planID, &it.ExerciseID, &it.Sets, &it.Reps, &it.Weight, &it.RestTime, &it.Notes, &it.ExerciseName, &it.MuscleGroup); err != nil {
			return nil, err
		}
		out[planID] = append(out[planID], it)
	}
	return out, rows.Err()
}
