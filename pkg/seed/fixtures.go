package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/code-vine/reflectivesql/pkg/codec"
	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"gopkg.in/yaml.v3"
)

// Fixture holds the rows for one table, as read from a fixture file.
type Fixture struct {
	Table string
	Rows  []map[string]any
}

// Load reads a YAML fixture document of the form
//
//	authors:
//	  - {name: Ursula K. Le Guin}
//	books:
//	  - {author_id: 1, title: The Dispossessed, status: 1}
//
// Tables are returned in document order so parents can precede children.
// Values for auto-increment keys are ignored on insert; the store assigns them.
func Load(r io.Reader) ([]Fixture, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("fixtures must be a mapping of table names to rows (line %d)", root.Line)
	}

	fixtures := make([]Fixture, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		f := Fixture{Table: key.Value}
		if err := value.Decode(&f.Rows); err != nil {
			return nil, fmt.Errorf("fixtures for %s (line %d): %w", key.Value, value.Line, err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// Build hydrates the fixture's rows into new values of e's type, converting
// each value with the codec. Keys must name mapped columns.
func (f Fixture) Build(e *entity.Entity) ([]reflect.Value, error) {
	out := make([]reflect.Value, 0, len(f.Rows))
	for i, row := range f.Rows {
		v := e.New()
		for name, raw := range row {
			col, ok := e.Column(name)
			if !ok {
				return nil, fmt.Errorf("%s row %d: %w %q", f.Table, i, core.ErrUnknownColumn, name)
			}
			if err := codec.Decode(e.Name()+"."+col.Field, col.FieldOf(v.Elem()), raw); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", f.Table, i, err)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Resolver maps a table name to its entity.
type Resolver func(table string) (*entity.Entity, bool)

// Apply seeds every fixture in order. Tables are resolved with resolve, or
// with the entity registry when resolve is nil.
func Apply(ctx context.Context, x core.Executor, fixtures []Fixture, resolve Resolver) ([]Result, error) {
	if resolve == nil {
		resolve = entity.Lookup
	}

	results := make([]Result, 0, len(fixtures))
	for _, f := range fixtures {
		e, ok := resolve(f.Table)
		if !ok {
			return results, fmt.Errorf("%w: no entity mapped to table %q", core.ErrMissingTableMetadata, f.Table)
		}
		rows, err := f.Build(e)
		if err != nil {
			return results, err
		}
		res, err := Rows(ctx, x, e, rows)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
