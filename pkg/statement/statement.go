// Package statement builds parameterized CRUD statements from entity
// descriptors. Builders are pure: they read struct values through reflection
// and never talk to a store.
//
// Every value is bound through a named parameter ("@column"); identifiers
// come only from entity metadata.
package statement

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/code-vine/reflectivesql/pkg/codec"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/entity"
)

// IDParam is the parameter name used by the by-id builders.
const IDParam = "id"

// Insert builds an INSERT for struct value v. Columns that the store
// generates (primary key + auto-increment) are left out. Dialects that read
// generated keys through RETURNING get the clause appended.
func Insert(d *dialect.Dialect, e *entity.Entity, v reflect.Value) (core.Statement, error) {
	d = dialect.OrDefault(d)
	v, ok := structOf(v)
	if !ok {
		return core.Statement{}, fmt.Errorf("%w: cannot insert nil %s", core.ErrNilValue, e.Name())
	}

	var (
		names  []string
		params []core.Param
	)
	for i := range e.Columns {
		col := &e.Columns[i]
		if col.IsGeneratedKey() {
			continue
		}
		names = append(names, col.Name)
		params = append(params, core.Param{Name: col.Name, Value: codec.Encode(col.FieldOf(v))})
	}

	var sb strings.Builder
	if len(names) == 0 {
		fmt.Fprintf(&sb, "INSERT INTO %s DEFAULT VALUES", e.Table)
	} else {
		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES (%s)", e.Table, strings.Join(names, ", "), placeholders(names))
	}

	if key, ok := e.AutoIncrementKey(); ok && d.Returning {
		fmt.Fprintf(&sb, " RETURNING %s", key.Name)
	}
	return core.Statement{Text: sb.String(), Params: params}, nil
}

// LastInsertID returns the dialect's follow-up query for the key generated
// by the preceding INSERT. ok is false for dialects that use RETURNING.
func LastInsertID(d *dialect.Dialect) (core.Statement, bool) {
	d = dialect.OrDefault(d)
	if d.Returning || d.LastInsertID == "" {
		return core.Statement{}, false
	}
	return core.Statement{Text: d.LastInsertID}, true
}

// Update builds a full-row UPDATE keyed by the primary key of v.
func Update(e *entity.Entity, v reflect.Value) (core.Statement, error) {
	pk, err := primaryKey(e)
	if err != nil {
		return core.Statement{}, err
	}
	v, ok := structOf(v)
	if !ok {
		return core.Statement{}, fmt.Errorf("%w: cannot update nil %s", core.ErrNilValue, e.Name())
	}

	var (
		sets   []string
		params []core.Param
	)
	for i := range e.Columns {
		col := &e.Columns[i]
		if col == pk {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", col.Name, core.Placeholder(col.Name)))
		params = append(params, core.Param{Name: col.Name, Value: codec.Encode(col.FieldOf(v))})
	}
	if len(sets) == 0 {
		return core.Statement{}, fmt.Errorf("%w on %s", core.ErrNoUpdatableColumns, e.Name())
	}
	params = append(params, core.Param{Name: pk.Name, Value: codec.Encode(pk.FieldOf(v))})

	return core.Statement{
		Text: fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
			e.Table, strings.Join(sets, ", "), pk.Name, core.Placeholder(pk.Name)),
		Params: params,
	}, nil
}

// Delete builds a DELETE for the row identified by v's primary key.
// An unset (zero) key or a nil v fails with core.ErrMissingKeyValue.
func Delete(e *entity.Entity, v reflect.Value) (core.Statement, error) {
	pk, err := primaryKey(e)
	if err != nil {
		return core.Statement{}, err
	}

	v, ok := structOf(v)
	if !ok {
		return core.Statement{}, fmt.Errorf("%w: nil %s", core.ErrMissingKeyValue, e.Name())
	}
	key := pk.FieldOf(v)
	if key.IsZero() {
		return core.Statement{}, fmt.Errorf("%w: %s.%s", core.ErrMissingKeyValue, e.Name(), pk.Field)
	}

	return core.Statement{
		Text:   fmt.Sprintf("DELETE FROM %s WHERE %s = %s", e.Table, pk.Name, core.Placeholder(pk.Name)),
		Params: []core.Param{{Name: pk.Name, Value: codec.Encode(key)}},
	}, nil
}

// DeleteByID builds a DELETE for the row whose primary key equals id.
func DeleteByID(e *entity.Entity, id any) (core.Statement, error) {
	pk, err := primaryKey(e)
	if err != nil {
		return core.Statement{}, err
	}
	return core.Statement{
		Text:   fmt.Sprintf("DELETE FROM %s WHERE %s = %s", e.Table, pk.Name, core.Placeholder(IDParam)),
		Params: []core.Param{{Name: IDParam, Value: codec.EncodeAny(id)}},
	}, nil
}

// SelectAll selects every mapped column in declaration order, so results
// can be hydrated by position.
func SelectAll(e *entity.Entity) core.Statement {
	return core.Statement{
		Text: fmt.Sprintf("SELECT %s FROM %s", strings.Join(e.ColumnNames(), ", "), e.Table),
	}
}

// SelectByID selects at most one row by primary key.
func SelectByID(e *entity.Entity, id any) (core.Statement, error) {
	pk, err := primaryKey(e)
	if err != nil {
		return core.Statement{}, err
	}
	return core.Statement{
		Text:   fmt.Sprintf("SELECT * FROM %s WHERE %s = %s LIMIT 1", e.Table, pk.Name, core.Placeholder(IDParam)),
		Params: []core.Param{{Name: IDParam, Value: codec.EncodeAny(id)}},
	}, nil
}

// Count counts the rows of the entity's table.
func Count(e *entity.Entity) core.Statement {
	return core.Statement{Text: fmt.Sprintf("SELECT COUNT(*) FROM %s", e.Table)}
}

func primaryKey(e *entity.Entity) (*entity.Column, error) {
	pk, ok := e.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("%w on %s", core.ErrNoPrimaryKey, e.Name())
	}
	return pk, nil
}

// structOf dereferences v down to the struct value. ok is false when a
// pointer on the way is nil.
func structOf(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func placeholders(names []string) string {
	ph := make([]string, len(names))
	for i, n := range names {
		ph[i] = core.Placeholder(n)
	}
	return strings.Join(ph, ", ")
}
