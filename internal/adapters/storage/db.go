package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// migrations holds the goose SQL migrations applied by MigrateDB.
//
//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Open opens the SQLite database at path with WAL, a busy timeout, and
// foreign keys enforced.
// PRE: path is a file path or ":memory:"
// POST: Returns a pinged connection pool
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

func setupGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return nil
}

// MigrateDB applies all pending embedded migrations.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion()
// INVARIANT: Already-applied migrations are never re-run
func MigrateDB(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if after != before {
		slog.Info("storage_event", "event", "schema_migrated", "from", before, "to", after)
	}
	return nil
}

// SchemaVersion returns the applied schema version (0 for a fresh database).
func SchemaVersion(db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}

// LatestSchemaVersion returns the version of the newest embedded migration.
func LatestSchemaVersion() int64 {
	if err := setupGoose(); err != nil {
		return 0
	}
	ms, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil || len(ms) == 0 {
		return 0
	}
	return ms[len(ms)-1].Version
}
