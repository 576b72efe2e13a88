// Package db opens the Photos media database that holds video projects.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// CollationNoCaseLinguistic is the custom collation the Photos schema
// declares on name columns. Queries fail without it.
const CollationNoCaseLinguistic = "NoCaseLinguistic"

func init() {
	sqlite.MustRegisterCollationUtf8(CollationNoCaseLinguistic, CompareNoCase)
}

// CompareNoCase orders strings case-insensitively.
func CompareNoCase(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open opens an existing database read-only.
func Open(dbPath string, logger *slog.Logger) (*DB, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("database not accessible: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("database path %s is a directory", dbPath)
	}

	d, err := open(readOnlyDSN(dbPath), logger)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug("opened database", "path", dbPath, "mode", "ro")
	}
	return d, nil
}

// Create opens dbPath for writing, creating it if needed, and applies the
// embedded schema.
func Create(dbPath string, logger *slog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	d, err := open(dbPath, logger)
	if err != nil {
		return nil, err
	}

	if _, err := d.conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := d.applySchema(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return d, nil
}

func open(dsn string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The Photos app may hold a write lock while we read.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{conn: conn, logger: logger}, nil
}

// readOnlyDSN builds a SQLite URI filename with mode=ro.
func readOnlyDSN(dbPath string) string {
	escaped := strings.NewReplacer("%", "%25", " ", "%20", "?", "%3f", "#", "%23").Replace(filepath.ToSlash(dbPath))
	return "file:" + escaped + "?mode=ro"
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Conn() *sql.DB {
	return d.conn
}

func (d *DB) applySchema() error {
	files, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		name := f.Name()
		content, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			return fmt.Errorf("failed to read schema %s: %w", name, err)
		}

		if _, err := d.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute schema %s: %w", name, err)
		}

		if d.logger != nil {
			d.logger.Info("applied schema", "name", name)
		}
	}

	return nil
}
