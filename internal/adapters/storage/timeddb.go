package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow queries and record them to a collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is a valid database connection; slowQueryMs <= 0 selects DefaultSlowQueryMs
// POST: Returns a TimedDB that logs slow queries and records to collector (may be nil)
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowQueryMs int) *TimedDB {
	if slowQueryMs <= 0 {
		slowQueryMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowQueryMs),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and export).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// queryLabel names a statement by its verb and first table, e.g. "SELECT client".
func queryLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "empty"
	}
	verb := strings.ToUpper(fields[0])
	var keyword string
	switch verb {
	case "SELECT", "DELETE":
		keyword = "FROM"
	case "INSERT":
		keyword = "INTO"
	case "UPDATE":
		return verb + " " + tableName(fields, 1)
	default:
		return verb
	}
	for i, f := range fields {
		if strings.EqualFold(f, keyword) {
			return verb + " " + tableName(fields, i+1)
		}
	}
	return verb
}

func tableName(fields []string, i int) string {
	if i >= len(fields) {
		return "?"
	}
	name := fields[i]
	if idx := strings.IndexAny(name, "( "); idx > 0 {
		name = name[:idx]
	}
	return name
}

func (t *TimedDB) logQuery(op, query string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	label := op
	if query != "" {
		label = queryLabel(query)
	}

	if durationMs >= t.threshold {
		slog.Warn("slow_query", "op", op, "query", label, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "query", label, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Key:        label,
			DurationMs: durationMs,
			At:         start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("ExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("QueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery("QueryRowContext", query, start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing. Statements run on the returned
// transaction are not timed individually.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.logQuery("BeginTx", "", start)
	return tx, err
}

// PingContext verifies the database connection.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
