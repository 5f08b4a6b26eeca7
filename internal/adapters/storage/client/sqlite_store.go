package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/client"
)

const selectColumns = "SELECT id, first_name, last_name, email, phone, cedula, fingerprint_id, membership_type, start_date, end_date, status, debt, medical_notes, workout_plan_id, created_at FROM client"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new client Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (domain.Client, error) {
	var entity domain.Client
	var email, fingerprint, workoutPlan sql.NullString
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.FirstName,
		&entity.LastName,
		&email,
		&entity.Phone,
		&entity.Cedula,
		&fingerprint,
		&entity.MembershipType,
		&entity.StartDate,
		&entity.EndDate,
		&entity.Status,
		&entity.Debt,
		&entity.MedicalNotes,
		&workoutPlan,
		&createdAt,
	)
	if err != nil {
		return domain.Client{}, err
	}
	entity.Email = email.String
	entity.FingerprintID = fingerprint.String
	entity.WorkoutPlanID = workoutPlan.String
	if createdAt != "" {
		if t, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			entity.CreatedAt = t
		}
	}
	return entity, nil
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg any) (domain.Client, error) {
	entity, err := scanClient(s.db.QueryRowContext(ctx, selectColumns+" WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Client{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return entity, err
}

// GetByID retrieves a Client by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound and sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Client, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a Client by email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Client, error) {
	return s.getOne(ctx, "lower(email) = lower(?) ORDER BY created_at LIMIT 1", email)
}

// GetByCedula retrieves a Client by national id.
func (s *SQLiteStore) GetByCedula(ctx context.Context, cedula string) (domain.Client, error) {
	return s.getOne(ctx, "cedula = ?", cedula)
}

// GetByFingerprintID retrieves a Client by the scanner's fingerprint id.
func (s *SQLiteStore) GetByFingerprintID(ctx context.Context, fingerprintID string) (domain.Client, error) {
	return s.getOne(ctx, "fingerprint_id = ?", fingerprintID)
}

// Save persists a Client to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); duplicate cedula or
// fingerprint id returns domain.ErrDuplicateCedula / domain.ErrDuplicateFinger
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Client) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "first_name", "last_name", "email", "phone", "cedula", "fingerprint_id", "membership_type", "start_date", "end_date", "status", "debt", "medical_notes", "workout_plan_id", "created_at"}
	placeholders := make([]string, len(fields))
	updates := make([]string, 0, len(fields)-2)
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" && f != "created_at" {
			updates = append(updates, f+"=excluded."+f)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO client (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.FirstName,
		entity.LastName,
		nullable(entity.Email),
		entity.Phone,
		entity.Cedula,
		nullable(entity.FingerprintID),
		entity.MembershipType,
		entity.StartDate,
		entity.EndDate,
		entity.Status,
		entity.Debt,
		entity.MedicalNotes,
		nullable(entity.WorkoutPlanID),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return uniqueViolation(err)
	}

	return tx.Commit()
}

// Delete removes a Client. Payments and attendance cascade.
// PRE: id is non-empty
// POST: Client and its history are removed; missing id returns domain.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM client WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, sql.ErrNoRows)
	}
	return nil
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name":     "last_name, first_name",
		"end_date": "end_date",
		"created":  "created_at",
		"debt":     "debt",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY created_at DESC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	if filter.Sort == "name" {
		return " ORDER BY last_name " + dir + ", first_name " + dir
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the number of clients matching the filter.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM client"+where, args...).Scan(&count)
	return count, err
}

// List retrieves Clients based on the filter, newest first by default.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Client, error) {
	where, args := listWhereClause(filter)
	query := selectColumns + where + sortClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)
	return s.query(ctx, query, args...)
}

// ListAll returns every client ordered by name, for sweeps and exports.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Client, error) {
	return s.query(ctx, selectColumns+" ORDER BY last_name, first_name")
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Client
	for rows.Next() {
		entity, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// uniqueViolation maps SQLite unique constraint failures to domain errors.
func uniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "client.cedula"):
		return domain.ErrDuplicateCedula
	case strings.Contains(msg, "client.fingerprint_id"):
		return domain.ErrDuplicateFinger
	}
	return err
}
