// Package database caches simulation runs in SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// =============================================================================
// Database Connection
// =============================================================================

// DB wraps the standard sql.DB with run cache methods.
type DB struct {
	*sql.DB
	logger *slog.Logger
	path   string
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or ":memory:"
	MaxOpenConns    int           // Maximum open connections
	MaxIdleConns    int           // Maximum idle connections
	ConnMaxLifetime time.Duration // Connection max lifetime
	BusyTimeout     time.Duration // How long a writer waits on a locked file, 5s when zero
}

// DefaultConfig returns the settings used by the service and the importer.
// A single connection serializes writers; WAL keeps readers unblocked.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// dsn builds the go-sqlite3 connection string for cfg.
func dsn(cfg Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprintf("%d", busy.Milliseconds()))
	// SaveRun and DeleteRun always write, so take the write lock up front.
	params.Set("_txlock", "immediate")
	if !isMemory(cfg.Path) {
		params.Set("_journal_mode", "WAL")
		params.Set("_synchronous", "NORMAL")
	}

	return cfg.Path + "?" + params.Encode()
}

// Open creates a new database connection.
//
// The caller is responsible for calling Close() when done.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, errors.New("database path is empty")
	}

	if !isMemory(cfg.Path) {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("run cache opened",
		slog.String("path", cfg.Path),
		slog.String("sqlite_version", sqliteVersion()),
	)

	return &DB{
		DB:     sqlDB,
		logger: logger,
		path:   cfg.Path,
	}, nil
}

func sqliteVersion() string {
	version, _, _ := sqlite3.Version()
	return version
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Info("closing run cache", slog.String("path", db.path))
	return db.DB.Close()
}

// Health checks that the run cache answers queries.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}
	if n < len(migrationsSQL) {
		return fmt.Errorf("schema at version %d, want %d", n, len(migrationsSQL))
	}

	return nil
}

// =============================================================================
// Migrations
// =============================================================================

// Migrate applies pending migrations, in version order, inside one
// transaction. Returns the number of migrations applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)
		`); err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		done, err := tx.appliedVersions(ctx)
		if err != nil {
			return err
		}

		for _, version := range migrationVersions() {
			if done[version] {
				continue
			}
			if err := tx.applyMigration(ctx, version); err != nil {
				return err
			}
			db.logger.Info("applied migration", slog.Int("version", version))
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.Debug("migrations complete",
		slog.Int("applied", applied),
		slog.Int("total", len(migrationsSQL)),
	)
	return applied, nil
}

func migrationVersions() []int {
	versions := make([]int, 0, len(migrationsSQL))
	for v := range migrationsSQL {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}

func (tx *Tx) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := tx.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		done[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migration versions: %w", err)
	}
	return done, nil
}

func (tx *Tx) applyMigration(ctx context.Context, version int) error {
	if _, err := tx.ExecContext(ctx, migrationsSQL[version]); err != nil {
		return fmt.Errorf("execute migration %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version) VALUES (?)", version,
	); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	return nil
}

// =============================================================================
// Transaction Helpers
// =============================================================================

// Tx represents a database transaction.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a new transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise, including when fn panics.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// =============================================================================
// Error Types
// =============================================================================

// ErrNotFound is returned when a requested record doesn't exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate record")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
