// Package ddl generates CREATE TABLE statements from entity descriptors.
package ddl

import (
	"fmt"
	"strings"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/entity"
)

// CreateTable returns the SQLite CREATE TABLE statement for e.
func CreateTable(e *entity.Entity) (string, error) {
	return CreateTableFor(dialect.SQLite, e)
}

// CreateTableFor returns the CREATE TABLE statement for e in dialect d.
// The output depends only on e and d, so repeated calls are byte-identical.
func CreateTableFor(d *dialect.Dialect, e *entity.Entity) (string, error) {
	if e == nil {
		return "", core.ErrMissingTableMetadata
	}
	d = dialect.OrDefault(d)

	defs := make([]string, 0, len(e.Columns))
	var fks []string

	for i := range e.Columns {
		col := &e.Columns[i]
		def, err := columnDef(d, e, col)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)

		if col.ForeignKey != nil {
			fks = append(fks, fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s)",
				col.Name, col.ForeignKey.Table, col.ForeignKey.Column))
		}
	}

	defs = append(defs, fks...)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", e.Table, strings.Join(defs, ", ")), nil
}

// CreateTables returns one statement per entity, in the given order.
func CreateTables(d *dialect.Dialect, entities ...*entity.Entity) ([]string, error) {
	stmts := make([]string, 0, len(entities))
	for _, e := range entities {
		stmt, err := CreateTableFor(d, e)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func columnDef(d *dialect.Dialect, e *entity.Entity, col *entity.Column) (string, error) {
	var sb strings.Builder
	sb.WriteString(col.Name)
	sb.WriteString(" ")
	sb.WriteString(col.StorageType)

	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	// Only the first primary-key column carries the constraint.
	pk, _ := e.PrimaryKey()
	isKey := pk == col
	if isKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if col.AutoIncrement {
		if !isKey || !strings.EqualFold(col.StorageType, "INTEGER") {
			return "", &core.AutoIncrementError{
				Entity:      e.Name(),
				Field:       col.Field,
				StorageType: col.StorageType,
				PrimaryKey:  col.PrimaryKey,
			}
		}
		if d.AutoIncrement != "" {
			sb.WriteString(" ")
			sb.WriteString(d.AutoIncrement)
		}
	}
	return sb.String(), nil
}
