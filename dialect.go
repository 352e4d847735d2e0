package userstore

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var (
	SQLite     = &SQLiteDialect{}
	PureSQLite = &PureSQLiteDialect{}
)

// Dialect describes how to reach a database engine.
type Dialect interface {
	// Name is the engine name used for logging, metrics and sqlx bind type.
	Name() string

	// DriverName is the database/sql driver to open.
	DriverName() string

	// PlaceholderFormat is handed to squirrel.
	PlaceholderFormat() sq.PlaceholderFormat
}

// SQLiteDialect uses github.com/mattn/go-sqlite3 (cgo).
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string                            { return "sqlite3" }
func (d *SQLiteDialect) DriverName() string                      { return "sqlite3" }
func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

// PureSQLiteDialect uses modernc.org/sqlite, which needs no cgo.
type PureSQLiteDialect struct{}

func (d *PureSQLiteDialect) Name() string                            { return "sqlite3" }
func (d *PureSQLiteDialect) DriverName() string                      { return "sqlite" }
func (d *PureSQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

// DialectFor maps a configured driver name to its Dialect.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite3", "cgo", "mattn":
		return SQLite, nil
	case "sqlite", "modernc", "pure":
		return PureSQLite, nil
	}
	return nil, fmt.Errorf("userstore: unknown driver %q", name)
}
