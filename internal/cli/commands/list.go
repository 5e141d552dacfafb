package commands

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/code-vine/reflectivesql/pkg/codec"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/code-vine/reflectivesql/pkg/mapper"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List the rows of a mapped table",
		Long: `List the rows of a mapped table as a table.

Each --where adds an equality condition; conditions are combined with AND.
Values are read like fixture scalars (42, true, null, text) and then
converted to the column's field type.`,
		Example: `  # All books
  reflectsql list books

  # Published books by one author
  reflectsql list books --where author_id=1 --where status=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := entity.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: no entity mapped to table %q (known: %s)",
					core.ErrMissingTableMetadata, args[0], strings.Join(entity.Tables(), ", "))
			}

			filters, err := parseWhere(e, where)
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := mapper.QueryWhereEntity(cmd.Context(), cmdCtx.Store, e, filters)
			if err != nil {
				return err
			}
			renderRows(cmd, e, rows)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Filter as column=value (repeatable)")
	return cmd
}

// parseWhere turns column=value pairs into filters typed like e's fields.
func parseWhere(e *entity.Entity, pairs []string) ([]mapper.Filter, error) {
	filters := make([]mapper.Filter, 0, len(pairs))
	for _, pair := range pairs {
		name, text, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --where %q, expected column=value", pair)
		}
		col, ok := e.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no column %q", core.ErrUnknownColumn, e.Table, name)
		}

		var raw any = text
		if !isText(col.Type) {
			if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
				return nil, fmt.Errorf("invalid value for %s: %w", name, err)
			}
		}

		field := e.Name() + "." + col.Field
		if raw == nil && !acceptsNull(col.Type) {
			return nil, &core.CoercionError{Field: field, Target: col.Type, Err: errNotNullable}
		}

		v := reflect.New(col.Type).Elem()
		if err := codec.Decode(field, v, raw); err != nil {
			return nil, err
		}
		filters = append(filters, mapper.Eq(col.Name, codec.Encode(v)))
	}
	return filters, nil
}

var (
	errNotNullable = errors.New("column cannot hold null")
	scannerType    = reflect.TypeFor[sql.Scanner]()
)

// acceptsNull reports whether a field of type t can hold a null filter value.
func acceptsNull(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return reflect.PointerTo(t).Implements(scannerType)
}

// isText reports whether t holds text, so values are taken verbatim.
func isText(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.String
}

func renderRows(cmd *cobra.Command, e *entity.Entity, rows []reflect.Value) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(0 rows)")
		return
	}

	t := newTable(cmd)
	header := make(table.Row, len(e.Columns))
	for i, col := range e.Columns {
		header[i] = col.Name
	}
	t.AppendHeader(header)

	for _, row := range rows {
		out := make(table.Row, len(e.Columns))
		for i := range e.Columns {
			out[i] = formatValue(e.Columns[i].FieldOf(row.Elem()))
		}
		t.AppendRow(out)
	}
	t.Render()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d rows)\n", len(rows))
}

// formatValue renders a field for display; enums print through their
// String method when they have one.
func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "NULL"
		}
		v = v.Elem()
	}
	switch x := v.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339)
	case []byte:
		if x == nil {
			return "NULL"
		}
		return "x'" + hex.EncodeToString(x) + "'"
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v.Interface())
}
