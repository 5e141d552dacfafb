// Package entity extracts table and column metadata from Go struct types.
//
// A struct becomes an entity by implementing Tabler; its persisted fields are
// the ones carrying a `db` tag:
//
//	type Book struct {
//		ID       int64  `db:"id,INTEGER,pk,autoincrement"`
//		AuthorID int64  `db:"author_id,INTEGER,notnull" fk:"authors(id)"`
//		Title    string `db:"title,TEXT,notnull"`
//		draft    string // not persisted
//	}
//
//	func (Book) TableName() string { return "books" }
//
// Descriptors are derived once per type and cached for the life of the process.
package entity

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/code-vine/reflectivesql/pkg/core"
)

// Tabler designates the table a struct type maps to.
type Tabler interface {
	TableName() string
}

var tablerType = reflect.TypeOf((*Tabler)(nil)).Elem()

// ForeignKey references a column of another table.
type ForeignKey struct {
	Table  string
	Column string
}

// Column describes one persisted struct field.
type Column struct {
	Field         string       // Go field name
	Index         []int        // index path for reflect.Value.FieldByIndex
	Type          reflect.Type // Go field type
	Name          string       // storage name
	StorageType   string       // engine type name, e.g. INTEGER or TEXT
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	ForeignKey    *ForeignKey
}

// IsGeneratedKey reports whether the store assigns this column's value on insert.
func (c *Column) IsGeneratedKey() bool {
	return c.PrimaryKey && c.AutoIncrement
}

// FieldOf returns the field of struct value v that backs this column.
func (c *Column) FieldOf(v reflect.Value) reflect.Value {
	return v.FieldByIndex(c.Index)
}

// Entity describes a mapped struct type.
type Entity struct {
	Type    reflect.Type
	Table   string
	Columns []Column
}

// Name returns the Go type name of the entity.
func (e *Entity) Name() string {
	return e.Type.Name()
}

// PrimaryKey returns the first column marked as primary key, in declaration order.
// Additional primary-key columns are not used by key-based operations.
func (e *Entity) PrimaryKey() (*Column, bool) {
	for i := range e.Columns {
		if e.Columns[i].PrimaryKey {
			return &e.Columns[i], true
		}
	}
	return nil, false
}

// AutoIncrementKey returns the generated-key column when exactly one exists.
func (e *Entity) AutoIncrementKey() (*Column, bool) {
	var found *Column
	for i := range e.Columns {
		if !e.Columns[i].IsGeneratedKey() {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = &e.Columns[i]
	}
	return found, found != nil
}

// Column returns the column with the given storage name (case-insensitive).
func (e *Entity) Column(name string) (*Column, bool) {
	for i := range e.Columns {
		if strings.EqualFold(e.Columns[i].Name, name) {
			return &e.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the storage names in declaration order.
func (e *Entity) ColumnNames() []string {
	names := make([]string, len(e.Columns))
	for i := range e.Columns {
		names[i] = e.Columns[i].Name
	}
	return names
}

// New returns a pointer to a new zero value of the entity type.
func (e *Entity) New() reflect.Value {
	return reflect.New(e.Type)
}

var cache sync.Map // reflect.Type -> *Entity

// Describe returns the descriptor for a struct value, a pointer to one,
// or a reflect.Type.
func Describe(v any) (*Entity, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", core.ErrMissingTableMetadata)
	case reflect.Type:
		return DescribeType(t)
	default:
		return DescribeType(reflect.TypeOf(v))
	}
}

// Of returns the descriptor for T.
func Of[T any]() (*Entity, error) {
	return DescribeType(reflect.TypeFor[T]())
}

// DescribeType returns the descriptor for t, dereferencing pointer types.
func DescribeType(t reflect.Type) (*Entity, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if cached, ok := cache.Load(t); ok {
		return cached.(*Entity), nil
	}

	e, err := build(t)
	if err != nil {
		return nil, err
	}

	// Content is a pure function of t, so whichever writer lands first is fine.
	actual, _ := cache.LoadOrStore(t, e)
	return actual.(*Entity), nil
}

func build(t reflect.Type) (*Entity, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", core.ErrMissingTableMetadata, t)
	}

	table := tableName(t)
	if table == "" {
		return nil, fmt.Errorf("%w on %s", core.ErrMissingTableMetadata, t.Name())
	}

	e := &Entity{Type: t, Table: table}
	if err := collectColumns(e, t, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name(), err)
	}
	return e, nil
}

func tableName(t reflect.Type) string {
	if !reflect.PointerTo(t).Implements(tablerType) {
		return ""
	}
	return strings.TrimSpace(reflect.New(t).Interface().(Tabler).TableName())
}

// collectColumns appends the tagged fields of t in declaration order,
// flattening untagged embedded structs in place.
func collectColumns(e *Entity, t reflect.Type, prefix []int) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		tag, tagged := f.Tag.Lookup("db")
		if f.Anonymous && !tagged {
			if f.Type.Kind() == reflect.Struct {
				if err := collectColumns(e, f.Type, index); err != nil {
					return err
				}
			}
			continue
		}
		if !tagged || !f.IsExported() {
			continue
		}

		col, skip, err := parseColumn(f, tag)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		if _, dup := e.Column(col.Name); dup {
			return fmt.Errorf("%w: duplicate column %q on field %s", core.ErrInvalidTag, col.Name, f.Name)
		}
		col.Index = index
		e.Columns = append(e.Columns, col)
	}
	return nil
}
