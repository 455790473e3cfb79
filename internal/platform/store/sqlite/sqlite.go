// Package sqlite opens a modernc.org/sqlite database with the pragmas the pipeline relies on
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"disasterresponse/internal/platform/store/trace"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

// Memory is the path that selects a private in-memory database
const Memory = ":memory:"

// Config configures the SQLite file and connection pragmas
type Config struct {
	Path          string
	BusyTimeoutMs int
	Synchronous   string
	SlowMs        int
	MkdirAll      bool
}

// DB is an open SQLite handle with an optional tracer
type DB struct {
	SQL    *sql.DB
	Tracer trace.QueryTracer
	SlowMs int
	Path   string
}

// Open opens path with WAL, busy_timeout, synchronous and foreign_keys applied.
// The pool is capped at one connection: per-connection pragmas stay in effect and
// ":memory:" stays a single database
func Open(ctx context.Context, cfg Config, tracer trace.QueryTracer) (*DB, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	if cfg.BusyTimeoutMs <= 0 {
		cfg.BusyTimeoutMs = 10_000
	}
	if cfg.Synchronous == "" {
		cfg.Synchronous = "NORMAL"
	}
	if cfg.MkdirAll && path != Memory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeoutMs),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.Synchronous),
	}
	if path != Memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return &DB{SQL: db, Tracer: tracer, SlowMs: cfg.SlowMs, Path: path}, nil
}

// Close closes the handle
func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}
