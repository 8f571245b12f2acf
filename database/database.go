// Package database is the transport seam: the engine talks to a Database and
// never to a driver directly.
package database

import (
	"context"
)

// Database executes command text with positional or named arguments.
type Database interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (Result, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Rows is a forward-only result cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

// Result reports the outcome of a non-query command.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// CommandType is the shape of what a command returns.
type CommandType int

const (
	// CommandScalar returns the first column of the first row.
	CommandScalar CommandType = iota
	// CommandRowSet returns rows.
	CommandRowSet
	// CommandNonQuery returns an affected-row count.
	CommandNonQuery
)

func (c CommandType) String() string {
	switch c {
	case CommandScalar:
		return "scalar"
	case CommandRowSet:
		return "rowset"
	case CommandNonQuery:
		return "nonquery"
	default:
		return "unknown"
	}
}
