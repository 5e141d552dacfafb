package entity

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/code-vine/reflectivesql/pkg/core"
)

// parseColumn reads a `db:"name,TYPE,opt..."` tag and an optional
// `fk:"table(column)"` tag.
func parseColumn(f reflect.StructField, tag string) (Column, bool, error) {
	parts := splitTag(tag)
	name := strings.TrimSpace(parts[0])
	if name == "-" {
		return Column{}, true, nil
	}
	if name == "" {
		name = snakeCase(f.Name)
	}

	col := Column{
		Field:    f.Name,
		Type:     f.Type,
		Name:     name,
		Nullable: true,
	}

	for i, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch strings.ToLower(opt) {
		case "":
		case "pk", "primarykey":
			col.PrimaryKey = true
		case "autoincrement":
			col.AutoIncrement = true
		case "notnull":
			col.Nullable = false
		case "null":
			col.Nullable = true
		default:
			if i == 0 && isTypeName(opt) {
				col.StorageType = opt
				continue
			}
			return Column{}, false, fmt.Errorf("%w: unknown option %q on field %s", core.ErrInvalidTag, opt, f.Name)
		}
	}

	if col.StorageType == "" {
		col.StorageType = inferStorageType(f.Type)
		if col.StorageType == "" {
			return Column{}, false, fmt.Errorf("%w: cannot infer storage type of field %s (%s), declare it in the tag",
				core.ErrInvalidTag, f.Name, f.Type)
		}
	}

	if fk, ok := f.Tag.Lookup("fk"); ok {
		ref, err := parseForeignKey(fk)
		if err != nil {
			return Column{}, false, fmt.Errorf("%w on field %s", err, f.Name)
		}
		col.ForeignKey = ref
	}

	return col, false, nil
}

// splitTag splits on commas that are not inside parentheses, so that
// types like NUMERIC(10,2) survive.
func splitTag(tag string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range tag {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, tag[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, tag[start:])
}

func isTypeName(s string) bool {
	if s == "" || !unicode.IsLetter(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(" _(),", r) {
			return false
		}
	}
	return true
}

// parseForeignKey accepts "table(column)" or "table.column".
func parseForeignKey(tag string) (*ForeignKey, error) {
	tag = strings.TrimSpace(tag)
	var table, column string
	if open := strings.IndexByte(tag, '('); open > 0 && strings.HasSuffix(tag, ")") {
		table, column = tag[:open], tag[open+1:len(tag)-1]
	} else if dot := strings.LastIndexByte(tag, '.'); dot > 0 {
		table, column = tag[:dot], tag[dot+1:]
	}
	table, column = strings.TrimSpace(table), strings.TrimSpace(column)
	if table == "" || column == "" {
		return nil, fmt.Errorf("%w: foreign key %q, want table(column)", core.ErrInvalidTag, tag)
	}
	return &ForeignKey{Table: table, Column: column}, nil
}

var (
	timeType  = reflect.TypeOf(time.Time{})
	nullTypes = map[reflect.Type]string{
		reflect.TypeOf(sql.NullString{}):  "TEXT",
		reflect.TypeOf(sql.NullInt64{}):   "INTEGER",
		reflect.TypeOf(sql.NullInt32{}):   "INTEGER",
		reflect.TypeOf(sql.NullInt16{}):   "INTEGER",
		reflect.TypeOf(sql.NullByte{}):    "INTEGER",
		reflect.TypeOf(sql.NullBool{}):    "INTEGER",
		reflect.TypeOf(sql.NullFloat64{}): "REAL",
		reflect.TypeOf(sql.NullTime{}):    "TEXT",
	}
)

func inferStorageType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return "TEXT"
	}
	if st, ok := nullTypes[t]; ok {
		return st
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "BLOB"
		}
	}
	return ""
}

// snakeCase converts a Go field name to a storage name: AuthorID -> author_id.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
