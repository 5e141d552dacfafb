// Package mapper runs entity CRUD against a core.Executor.
//
// The mapper is stateless: every call describes the entity (cached), builds
// the statement, executes it through the injected executor and converts the
// results with the codec. It never opens connections, logs, or retries.
//
//	id, err := mapper.Insert(ctx, db, &book)          // book.ID is filled in
//	got, err := mapper.QueryByID[Book](ctx, db, book.ID)
//	hits, err := mapper.QueryWhere[Book](ctx, db, mapper.Eq("status", Published))
package mapper

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code-vine/reflectivesql/pkg/codec"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/ddl"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/code-vine/reflectivesql/pkg/statement"
)

// Filter is one equality condition for QueryWhere.
type Filter = statement.Filter

// Eq returns a filter matching rows where column equals value.
func Eq(column string, value any) Filter {
	return statement.Eq(column, value)
}

// Insert stores v. When the entity has a single auto-increment primary key,
// the generated key is read back and written into v's key field, which
// requires v to be a pointer. It returns the generated key, or nil.
//
// Dialects with RETURNING insert and read the key in one statement. The
// follow-up query of other dialects is only correct when the executor runs
// it on the INSERT's session with no statement in between.
func Insert(ctx context.Context, x core.Executor, v any) (any, error) {
	e, err := entity.Describe(v)
	if err != nil {
		return nil, err
	}
	return InsertEntity(ctx, x, e, reflect.ValueOf(v))
}

// InsertEntity is Insert for callers that already hold the descriptor.
func InsertEntity(ctx context.Context, x core.Executor, e *entity.Entity, v reflect.Value) (any, error) {
	d := x.Dialect()
	stmt, err := statement.Insert(d, e, v)
	if err != nil {
		return nil, err
	}
	key, generated := e.AutoIncrementKey()

	var raw any
	switch {
	case generated && d.Returning:
		id, err := x.Scalar(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", e.Name(), err)
		}
		raw = id
	default:
		if _, err := x.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", e.Name(), err)
		}
		if !generated {
			return nil, nil
		}
		last, ok := statement.LastInsertID(d)
		if !ok {
			return nil, nil
		}
		id, err := x.Scalar(ctx, last)
		if err != nil {
			return nil, fmt.Errorf("failed to read generated key of %s: %w", e.Name(), err)
		}
		raw = id
	}

	if target := key.FieldOf(reflect.Indirect(v)); target.CanSet() {
		if err := codec.Decode(fieldName(e, key), target, raw); err != nil {
			return raw, err
		}
	}
	return raw, nil
}

// Update writes every column of v to the row identified by its primary key
// and reports rows affected.
func Update(ctx context.Context, x core.Executor, v any) (int64, error) {
	e, err := entity.Describe(v)
	if err != nil {
		return 0, err
	}
	stmt, err := statement.Update(e, reflect.ValueOf(v))
	if err != nil {
		return 0, err
	}
	n, err := x.Exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", e.Name(), err)
	}
	return n, nil
}

// Delete removes the row identified by v's primary key and reports rows
// affected. An unset key fails with core.ErrMissingKeyValue before any
// statement is issued.
func Delete(ctx context.Context, x core.Executor, v any) (int64, error) {
	e, err := entity.Describe(v)
	if err != nil {
		return 0, err
	}
	stmt, err := statement.Delete(e, reflect.ValueOf(v))
	if err != nil {
		return 0, err
	}
	n, err := x.Exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", e.Name(), err)
	}
	return n, nil
}

// DeleteByID removes the T row whose primary key equals id.
func DeleteByID[T any](ctx context.Context, x core.Executor, id any) (int64, error) {
	e, err := entity.Of[T]()
	if err != nil {
		return 0, err
	}
	stmt, err := statement.DeleteByID(e, id)
	if err != nil {
		return 0, err
	}
	n, err := x.Exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", e.Name(), err)
	}
	return n, nil
}

// CreateSchema creates the tables of entities if they don't exist.
// Referenced tables are created before the tables that reference them.
func CreateSchema(ctx context.Context, x core.Executor, entities ...*entity.Entity) error {
	ordered, err := ddl.DependencyOrder(entities...)
	if err != nil {
		return err
	}
	stmts, err := ddl.CreateTables(x.Dialect(), ordered...)
	if err != nil {
		return err
	}
	for i, text := range stmts {
		if _, err := x.Exec(ctx, core.Statement{Text: text}); err != nil {
			return fmt.Errorf("failed to create table %s: %w", ordered[i].Table, err)
		}
	}
	return nil
}

// Count returns the number of T rows.
func Count[T any](ctx context.Context, x core.Executor) (int64, error) {
	e, err := entity.Of[T]()
	if err != nil {
		return 0, err
	}
	return CountEntity(ctx, x, e)
}

// CountEntity is Count for callers that already hold the descriptor.
func CountEntity(ctx context.Context, x core.Executor, e *entity.Entity) (int64, error) {
	raw, err := x.Scalar(ctx, statement.Count(e))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", e.Name(), err)
	}
	var n int64
	if err := codec.Decode("count", reflect.ValueOf(&n).Elem(), raw); err != nil {
		return 0, err
	}
	return n, nil
}

func fieldName(e *entity.Entity, col *entity.Column) string {
	return e.Name() + "." + col.Field
}
