package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var errNoRow = errors.New("cursor is not positioned on a row")

// sqlCursor adapts *sql.Rows to core.Cursor. Each row is scanned into
// driver values so the codec can coerce them per field.
type sqlCursor struct {
	rows *sql.Rows
	cols []string
	vals []any
	err  error
}

func (c *sqlCursor) Next() bool {
	c.vals = nil
	if c.err != nil || !c.rows.Next() {
		return false
	}

	vals := make([]any, len(c.cols))
	dest := make([]any, len(c.cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}
	c.vals = vals
	return true
}

func (c *sqlCursor) Columns() []string {
	return c.cols
}

func (c *sqlCursor) Value(name string) (any, error) {
	for i, col := range c.cols {
		if strings.EqualFold(col, name) {
			return c.ValueAt(i)
		}
	}
	return nil, fmt.Errorf("column %q not in result set", name)
}

func (c *sqlCursor) ValueAt(i int) (any, error) {
	if c.vals == nil {
		return nil, errNoRow
	}
	if i < 0 || i >= len(c.vals) {
		return nil, fmt.Errorf("column index %d out of range [0,%d)", i, len(c.vals))
	}
	return c.vals[i], nil
}

func (c *sqlCursor) IsNull(i int) bool {
	v, err := c.ValueAt(i)
	return err == nil && v == nil
}

func (c *sqlCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *sqlCursor) Close() error {
	return c.rows.Close()
}
