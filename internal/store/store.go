// Package store keeps tagged entries in an entity-attribute-value table and
// runs rendered predicates against it.
//
// Every tag of an entry is one row of entry_tags. The value lands in exactly
// one of the typed columns (str_value, num_value, date_value); the other two
// stay NULL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)

	"github.com/leapstack-labs/eavexpr/pkg/eav"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// Config selects the database.
type Config struct {
	Driver string
	DSN    string
}

// Store wraps a database handle holding the entry_tags table.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects to the database described by cfg. A SQLite file path gets its
// parent directory created. The in-memory database lives in a single
// connection, so the pool is pinned to one.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch cfg.Driver {
	case DriverSQLite:
		if cfg.DSN != MemoryDSN && !strings.HasPrefix(cfg.DSN, "file:") {
			if dir := filepath.Dir(cfg.DSN); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
	case DriverPgx:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite && cfg.DSN == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Debug("database opened", "driver", cfg.Driver, "dsn", cfg.DSN)
	return New(db, cfg.Driver, logger), nil
}

// New wraps an existing handle. driver decides the placeholder style.
func New(db *sql.DB, driver string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{db: db, driver: driver, logger: logger}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Tag is one attribute of an entry. Column names the typed value column the
// value is stored in; see the eav package for the names.
type Tag struct {
	EntryID string
	Name    string
	Column  string
	Value   string
}

// NewEntryID returns a fresh entry identifier.
func NewEntryID() string {
	return uuid.New().String()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutTag inserts one tag. Number values must parse as 64-bit integers.
func (s *Store) PutTag(ctx context.Context, tag Tag) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	return s.insertTag(ctx, s.db, tag)
}

func (s *Store) insertTag(ctx context.Context, db execer, tag Tag) error {
	if tag.EntryID == "" || tag.Name == "" {
		return fmt.Errorf("tag needs an entry id and a name")
	}

	var (
		str  sql.NullString
		num  sql.NullInt64
		date sql.NullString
	)
	switch tag.Column {
	case eav.StringColumn:
		str = sql.NullString{String: tag.Value, Valid: true}
	case eav.DateColumn:
		date = sql.NullString{String: tag.Value, Valid: true}
	case eav.NumberColumn:
		n, err := strconv.ParseInt(tag.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("tag %s: %q is not an integer: %w", tag.Name, tag.Value, err)
		}
		num = sql.NullInt64{Int64: n, Valid: true}
	default:
		return fmt.Errorf("tag %s: unknown value column %q", tag.Name, tag.Column)
	}

	_, err := db.ExecContext(ctx,
		s.rebind(`INSERT INTO entry_tags (entry_id, name, str_value, num_value, date_value) VALUES (?, ?, ?, ?, ?)`),
		tag.EntryID, tag.Name, str, num, date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tag %s: %w", tag.Name, err)
	}
	return nil
}

// Result holds the rows returned by Query. Text columns arrive as strings
// regardless of how the driver reports them.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Query runs statement and collects every row.
func (s *Store) Query(ctx context.Context, statement string) (*Result, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	s.logger.Debug("query executed", "rows", len(result.Rows))
	return result, nil
}

// rebind rewrites ? placeholders to $n for drivers that need it.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPgx {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
