package core

import (
	"context"

	"github.com/code-vine/reflectivesql/pkg/dialect"
)

// Executor is the capability the mapping engine needs from a store.
// Implementations own connection lifecycle; the mapper never opens or closes them.
type Executor interface {
	// Exec executes a statement that doesn't return rows and reports rows affected.
	Exec(ctx context.Context, stmt Statement) (int64, error)

	// Scalar executes a statement and returns the first column of the first row.
	// It returns (nil, nil) when the statement yields no rows.
	Scalar(ctx context.Context, stmt Statement) (any, error)

	// Query executes a statement that returns rows.
	// The caller must Close the cursor.
	Query(ctx context.Context, stmt Statement) (Cursor, error)

	// Dialect returns the SQL dialect spoken by the store.
	Dialect() *dialect.Dialect
}

// Cursor iterates over the rows of a query result.
type Cursor interface {
	// Next advances to the next row. It returns false when rows are exhausted
	// or an error occurred; check Err afterwards.
	Next() bool

	// Columns returns the result column names in position order.
	Columns() []string

	// Value returns the current row's value for the named column
	// (case-insensitive). A NULL is returned as nil.
	Value(name string) (any, error)

	// ValueAt returns the current row's value at position i.
	ValueAt(i int) (any, error)

	// IsNull reports whether the value at position i is NULL.
	IsNull(i int) bool

	// Err returns the error, if any, encountered during iteration.
	Err() error

	// Close releases the cursor.
	Close() error
}
