package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// Result states for a validated asset.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped" // file missing or unreadable
)

// DB wraps a private in-memory SQLite database used to dry-run the app's
// SQL assets. Nothing it holds outlives Close.
type DB struct {
	conn *sql.DB
}

// Result is the outcome of applying one asset.
type Result struct {
	Path   string
	Status string
	Err    error
}

// OpenMemory opens an empty in-memory database.
func OpenMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Each connection to :memory: is its own database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying *sql.DB.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// ApplyScript executes a multi-statement SQL script in one transaction.
func (d *DB) ApplyScript(ctx context.Context, script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Validate applies each file in order to a fresh in-memory database.
// Files that cannot be read are skipped; a failing file does not stop
// the ones after it.
func Validate(ctx context.Context, files []string) ([]Result, error) {
	d, err := OpenMemory()
	if err != nil {
		return nil, err
	}
	defer d.Close() //nolint:errcheck

	results := make([]Result, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			results = append(results, Result{Path: f, Status: StatusSkipped, Err: err})
			continue
		}
		if err := d.ApplyScript(ctx, string(data)); err != nil {
			results = append(results, Result{Path: f, Status: StatusFailed, Err: err})
			continue
		}
		results = append(results, Result{Path: f, Status: StatusOK})
	}
	return results, nil
}
