package entity

import (
	"fmt"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Entity)
	registered []*Entity
)

// Register adds entity types to the process-wide schema, in order.
// Registering the same type twice is a no-op; registering a different type
// under an already-claimed table name is an error.
func Register(values ...any) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, v := range values {
		e, err := Describe(v)
		if err != nil {
			return err
		}
		key := strings.ToLower(e.Table)
		if existing, ok := registry[key]; ok {
			if existing.Type == e.Type {
				continue
			}
			return &DuplicateTableError{Table: e.Table, Existing: existing.Name(), Type: e.Name()}
		}
		registry[key] = e
		registered = append(registered, e)
	}
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for init() functions.
func MustRegister(values ...any) {
	if err := Register(values...); err != nil {
		panic(fmt.Sprintf("entity: %v", err))
	}
}

// Registered returns all registered entities in registration order.
func Registered() []*Entity {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Entity, len(registered))
	copy(out, registered)
	return out
}

// Lookup returns the registered entity mapped to table (case-insensitive).
func Lookup(table string) (*Entity, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[strings.ToLower(table)]
	return e, ok
}

// Tables returns the registered table names in registration order.
func Tables() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, len(registered))
	for i, e := range registered {
		names[i] = e.Table
	}
	return names
}

// DuplicateTableError is returned when two types claim the same table.
type DuplicateTableError struct {
	Table    string
	Existing string
	Type     string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table %q is already mapped by %s, cannot register %s", e.Table, e.Existing, e.Type)
}
