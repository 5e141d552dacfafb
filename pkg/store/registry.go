package store

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/code-vine/reflectivesql/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Store)
)

// Register adds a store factory to the registry.
// Called by store implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Store) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a store factory by name.
func Get(name string) (func(*slog.Logger) Store, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// NewStore creates a new, unconnected store instance based on config type.
// The logger parameter is passed to the store constructor (nil uses discard logger).
func NewStore(cfg core.StoreConfig, logger *slog.Logger) (Store, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("store type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownStoreError{
			Type:      cfg.Type,
			Available: ListStores(),
		}
	}
	return factory(logger), nil
}

// ListStores returns all registered store names (sorted).
func ListStores() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a store type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownStoreError is returned when an unknown store type is requested.
type UnknownStoreError struct {
	Type      string
	Available []string
}

func (e *UnknownStoreError) Error() string {
	return fmt.Sprintf("unknown store type %q\nAvailable stores: %v\nHint: Check your store.type in reflectsql.yaml", e.Type, e.Available)
}
