package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
)

// ErrNotConnected is returned when a statement is issued before Connect.
var ErrNotConnected = errors.New("database connection not established")

// Binder turns statement parameters into database/sql arguments.
type Binder func(params []core.Param) []any

// NamedBinder binds every parameter as sql.Named(name, value).
func NamedBinder(params []core.Param) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = sql.Named(p.Name, p.Value)
	}
	return args
}

// BaseSQLStore provides common database/sql functionality for stores.
// Embed this struct in concrete store implementations to get standard
// Close, Exec, Scalar and Query implementations.
type BaseSQLStore struct {
	DB         *sql.DB
	Cfg        core.StoreConfig
	Logger     *slog.Logger
	Binder     Binder
	SQLDialect *dialect.Dialect
}

// Close closes the database connection.
func (b *BaseSQLStore) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Dialect returns the store's SQL dialect (SQLite when unset).
func (b *BaseSQLStore) Dialect() *dialect.Dialect {
	return dialect.OrDefault(b.SQLDialect)
}

// Exec executes a statement that doesn't return rows and reports rows affected.
func (b *BaseSQLStore) Exec(ctx context.Context, stmt core.Statement) (int64, error) {
	if b.DB == nil {
		return 0, ErrNotConnected
	}
	b.trace("exec", stmt)

	res, err := b.DB.ExecContext(ctx, stmt.Text, b.bind(stmt)...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute SQL: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// Scalar returns the first column of the first row, or nil when there are no rows.
func (b *BaseSQLStore) Scalar(ctx context.Context, stmt core.Statement) (any, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	b.trace("scalar", stmt)

	var v any
	err := b.DB.QueryRowContext(ctx, stmt.Text, b.bind(stmt)...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return v, nil
}

// Query executes a statement that returns rows.
func (b *BaseSQLStore) Query(ctx context.Context, stmt core.Statement) (core.Cursor, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	b.trace("query", stmt)

	//nolint:rowserrcheck // Err is checked by the caller through the cursor
	rows, err := b.DB.QueryContext(ctx, stmt.Text, b.bind(stmt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	return &sqlCursor{rows: rows, cols: cols}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLStore) IsConnected() bool {
	return b.DB != nil
}

func (b *BaseSQLStore) bind(stmt core.Statement) []any {
	if b.Binder != nil {
		return b.Binder(stmt.Params)
	}
	return NamedBinder(stmt.Params)
}

func (b *BaseSQLStore) trace(op string, stmt core.Statement) {
	if b.Logger == nil {
		return
	}
	b.Logger.Debug("executing statement",
		slog.String("op", op),
		slog.String("sql", stmt.String()),
		slog.Any("params", stmt.Names()),
	)
}
