// Package seed populates tables with initial rows. Seeding is guarded:
// a table that already holds rows is left alone, so seeding on every start
// is safe.
package seed

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/code-vine/reflectivesql/pkg/mapper"
)

// Result reports what seeding did to one table.
type Result struct {
	Table    string
	Inserted int
	Skipped  bool // table already had rows
}

// Rows inserts rows (struct values or pointers of e's type) into e's table
// when the table is empty.
func Rows(ctx context.Context, x core.Executor, e *entity.Entity, rows []reflect.Value) (Result, error) {
	res := Result{Table: e.Table}

	n, err := mapper.CountEntity(ctx, x, e)
	if err != nil {
		return res, err
	}
	if n > 0 {
		res.Skipped = true
		return res, nil
	}

	for i, row := range rows {
		if t := reflect.Indirect(row).Type(); t != e.Type {
			return res, fmt.Errorf("seed row %d of %s has type %s", i, e.Table, t)
		}
		if _, err := mapper.InsertEntity(ctx, x, e, row); err != nil {
			return res, fmt.Errorf("seed row %d of %s: %w", i, e.Table, err)
		}
		res.Inserted++
	}
	return res, nil
}

// Slice seeds T's table with rows when it is empty. Generated keys are
// written back into the slice elements.
func Slice[T any](ctx context.Context, x core.Executor, rows []T) (Result, error) {
	e, err := entity.Of[T]()
	if err != nil {
		return Result{}, err
	}
	values := make([]reflect.Value, len(rows))
	for i := range rows {
		values[i] = reflect.ValueOf(&rows[i])
	}
	return Rows(ctx, x, e, values)
}
