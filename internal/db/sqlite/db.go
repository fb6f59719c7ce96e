// Package sqlite opens the embedded SQL catalog database (modernc.org/sqlite,
// no cgo) and applies the embedded schema.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	msqlite "modernc.org/sqlite"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/search/text"
)

//go:embed migrations/*.sql
var migrations embed.FS

// FoldFunc is the SQL scalar function that lowercases its argument the same
// way the in-process matcher does. NULL folds to NULL.
const FoldFunc = "fold"

var registerOnce sync.Once
var registerErr error

// Config selects the database file. An empty Path or ":memory:" opens a
// private in-memory database.
type Config struct {
	Path string
}

// DB is an open catalog database.
type DB struct {
	sql *sql.DB
}

// Open opens the database, configures the connection and runs migrations.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	registerOnce.Do(func() {
		registerErr = msqlite.RegisterDeterministicScalarFunction(FoldFunc, 1, fold)
	})
	if registerErr != nil {
		return nil, fmt.Errorf("register %s: %w", FoldFunc, registerErr)
	}

	inMemory := cfg.Path == "" || cfg.Path == ":memory:"
	dsn := ":memory:"
	if !inMemory {
		q := url.Values{}
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "synchronous(NORMAL)")
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_txlock", "immediate")
		dsn = "file:" + cfg.Path + "?" + q.Encode()

		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Path, err)
	}
	if inMemory {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
		if _, err := sqlDB.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			sqlDB.Close()
			return nil, &db.Error{Op: db.OpExec, Err: err}
		}
	}

	d := &DB{sql: sqlDB}
	if err := d.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// migrate applies every embedded NNN_name.sql file newer than the highest
// version recorded in schema_migrations, one transaction per file.
func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.sql.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("create schema_migrations: %w", err)}
	}

	var current int
	if err := d.sql.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`,
	).Scan(&current); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("read schema version: %w", err)}
	}

	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(e.Name(), "%d_", &version); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("migration %s has no version prefix", e.Name())}
		}
		if version <= current {
			continue
		}
		if err := d.apply(ctx, e.Name(), version); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}

func (d *DB) apply(ctx context.Context, name string, version int) error {
	data, err := migrations.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("exec %s: %w", name, err)
	}
	// A concurrent opener may have applied the same file first.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)`, version,
	); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (d *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := d.sql.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`,
	).Scan(&v); err != nil {
		return 0, &db.Error{Op: db.OpQuery, Err: err}
	}
	return v, nil
}

// SQL exposes the connection pool to repositories.
func (d *DB) SQL() *sql.DB { return d.sql }

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (d *DB) Close() {
	_ = d.sql.Close()
}

// WaitForReady pings once within timeout; an embedded database is either
// usable immediately or broken.
func (d *DB) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return d.Ping(ctx)
}

func fold(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return text.Normalize(v), nil
	case []byte:
		return text.Normalize(string(v)), nil
	default:
		return v, nil
	}
}
