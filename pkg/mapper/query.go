package mapper

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code-vine/reflectivesql/pkg/codec"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/code-vine/reflectivesql/pkg/statement"
)

// QueryByID returns the T row whose primary key equals id, or (nil, nil)
// when there is none.
func QueryByID[T any](ctx context.Context, x core.Executor, id any) (*T, error) {
	e, err := entity.Of[T]()
	if err != nil {
		return nil, err
	}
	stmt, err := statement.SelectByID(e, id)
	if err != nil {
		return nil, err
	}

	rows, err := collect[T](ctx, x, e, stmt, byName)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// QueryAll returns every T row. Columns are selected explicitly in
// declaration order and hydrated by position.
func QueryAll[T any](ctx context.Context, x core.Executor) ([]T, error) {
	e, err := entity.Of[T]()
	if err != nil {
		return nil, err
	}
	return collect[T](ctx, x, e, statement.SelectAll(e), byPosition)
}

// QueryWhere returns the T rows matching every filter. Filters are joined
// with AND in the order given; a nil value compares with plain equality.
func QueryWhere[T any](ctx context.Context, x core.Executor, filters ...Filter) ([]T, error) {
	e, err := entity.Of[T]()
	if err != nil {
		return nil, err
	}
	stmt, err := statement.SelectWhere(e, filters)
	if err != nil {
		return nil, err
	}
	return collect[T](ctx, x, e, stmt, byName)
}

// QueryAllEntity returns pointers to every row of e's table, for callers
// that only hold a descriptor.
func QueryAllEntity(ctx context.Context, x core.Executor, e *entity.Entity) ([]reflect.Value, error) {
	return QueryWhereEntity(ctx, x, e, nil)
}

// QueryWhereEntity is QueryWhere for callers that only hold a descriptor.
// Each result is a pointer to a new struct of e's type.
func QueryWhereEntity(ctx context.Context, x core.Executor, e *entity.Entity, filters []Filter) ([]reflect.Value, error) {
	var (
		stmt core.Statement
		fill = byName
		err  error
	)
	if len(filters) == 0 {
		stmt, fill = statement.SelectAll(e), byPosition
	} else if stmt, err = statement.SelectWhere(e, filters); err != nil {
		return nil, err
	}

	out := []reflect.Value{}
	err = each(ctx, x, e, stmt, func(cur core.Cursor) error {
		row := e.New()
		if err := fill(cur, e, row.Elem()); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type hydrator func(cur core.Cursor, e *entity.Entity, dst reflect.Value) error

// byPosition fills dst from a result whose columns follow e's declaration order.
func byPosition(cur core.Cursor, e *entity.Entity, dst reflect.Value) error {
	if n := len(cur.Columns()); n < len(e.Columns) {
		return fmt.Errorf("result has %d columns, %s maps %d", n, e.Name(), len(e.Columns))
	}
	for i := range e.Columns {
		col := &e.Columns[i]
		raw, err := cur.ValueAt(i)
		if err != nil {
			return err
		}
		if err := codec.Decode(fieldName(e, col), col.FieldOf(dst), raw); err != nil {
			return err
		}
	}
	return nil
}

// byName fills dst by looking up each mapped column in the result.
func byName(cur core.Cursor, e *entity.Entity, dst reflect.Value) error {
	for i := range e.Columns {
		col := &e.Columns[i]
		raw, err := cur.Value(col.Name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fieldName(e, col), err)
		}
		if err := codec.Decode(fieldName(e, col), col.FieldOf(dst), raw); err != nil {
			return err
		}
	}
	return nil
}

func collect[T any](ctx context.Context, x core.Executor, e *entity.Entity, stmt core.Statement, fill hydrator) ([]T, error) {
	out := []T{}
	err := each(ctx, x, e, stmt, func(cur core.Cursor) error {
		var item T
		if err := fill(cur, e, structOf(reflect.ValueOf(&item).Elem())); err != nil {
			return err
		}
		out = append(out, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func each(ctx context.Context, x core.Executor, e *entity.Entity, stmt core.Statement, fn func(core.Cursor) error) error {
	cur, err := x.Query(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", e.Name(), err)
	}
	defer func() { _ = cur.Close() }()

	for cur.Next() {
		if err := fn(cur); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("failed to read %s rows: %w", e.Name(), err)
	}
	return nil
}

// structOf allocates through pointer types so T may be a struct or a pointer to one.
func structOf(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}
