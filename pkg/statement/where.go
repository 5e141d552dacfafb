package statement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/code-vine/reflectivesql/pkg/codec"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/entity"
)

// Filter is one equality condition of a QueryWhere call.
type Filter struct {
	Column string
	Value  any
}

// Eq returns a filter matching rows where column equals value.
// A nil value binds as NULL under plain equality, which matches no rows.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// SelectWhere builds `SELECT * FROM t WHERE c1 = @c1 AND c2 = @c2` with the
// conditions in the order given. Every filter column must be mapped by e;
// an empty filter list selects the whole table.
func SelectWhere(e *entity.Entity, filters []Filter) (core.Statement, error) {
	text := fmt.Sprintf("SELECT * FROM %s", e.Table)
	if len(filters) == 0 {
		return core.Statement{Text: text}, nil
	}

	conds := make([]string, 0, len(filters))
	params := make([]core.Param, 0, len(filters))
	used := make(map[string]bool, len(filters))

	for _, f := range filters {
		col, ok := e.Column(strings.TrimSpace(f.Column))
		if !ok {
			return core.Statement{}, fmt.Errorf("%w %q on %s", core.ErrUnknownColumn, f.Column, e.Name())
		}

		name := paramName(e, col.Name, used)
		used[name] = true

		conds = append(conds, fmt.Sprintf("%s = %s", col.Name, core.Placeholder(name)))
		params = append(params, core.Param{Name: name, Value: codec.EncodeAny(f.Value)})
	}

	return core.Statement{
		Text:   text + " WHERE " + strings.Join(conds, " AND "),
		Params: params,
	}, nil
}

// paramName returns col, or the first free col_N that is not itself a
// mapped column name.
func paramName(e *entity.Entity, col string, used map[string]bool) string {
	if !used[col] {
		return col
	}
	for n := 2; ; n++ {
		name := col + "_" + strconv.Itoa(n)
		if _, mapped := e.Column(name); !mapped && !used[name] {
			return name
		}
	}
}
