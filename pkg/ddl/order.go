package ddl

import (
	"fmt"
	"strings"

	"github.com/code-vine/reflectivesql/pkg/entity"
)

// CycleError is returned when foreign keys between entities form a cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("foreign key cycle detected: %s", strings.Join(e.Path, " -> "))
}

// DependencyOrder returns entities ordered so that every referenced table
// precedes the tables that reference it. Otherwise the input order is kept.
// Self references and references to tables outside the set are ignored.
func DependencyOrder(entities ...*entity.Entity) ([]*entity.Entity, error) {
	byTable := make(map[string]int, len(entities))
	for i, e := range entities {
		if e == nil {
			continue
		}
		byTable[strings.ToLower(e.Table)] = i
	}

	// child -> parents, in column order
	parents := make([][]int, len(entities))
	for i, e := range entities {
		if e == nil {
			continue
		}
		for _, col := range e.Columns {
			if col.ForeignKey == nil {
				continue
			}
			p, ok := byTable[strings.ToLower(col.ForeignKey.Table)]
			if !ok || p == i {
				continue
			}
			parents[i] = append(parents[i], p)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(entities))
	stack := make([]int, 0, len(entities))
	out := make([]*entity.Entity, 0, len(entities))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return &CycleError{Path: cyclePath(entities, stack, i)}
		}
		state[i] = visiting
		stack = append(stack, i)
		for _, p := range parents[i] {
			if err := visit(p); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		out = append(out, entities[i])
		return nil
	}

	for i := range entities {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// cyclePath renders the stack from the first visit of i back to i.
func cyclePath(entities []*entity.Entity, stack []int, i int) []string {
	start := 0
	for j, s := range stack {
		if s == i {
			start = j
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		path = append(path, entities[s].Table)
	}
	return append(path, entities[i].Table)
}
