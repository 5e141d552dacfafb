package config

import (
	"fmt"
	"strings"

	"github.com/code-vine/reflectivesql/pkg/store"
)

// Validate checks the store section against the registered store types.
func (c *Config) Validate() error {
	s := &c.Store
	s.Type = strings.ToLower(strings.TrimSpace(s.Type))
	if s.Type == "" {
		return fmt.Errorf("store type is required")
	}
	if !store.IsRegistered(s.Type) {
		return &store.UnknownStoreError{Type: s.Type, Available: store.ListStores()}
	}

	switch s.Type {
	case "postgres":
		if s.Host == "" {
			return fmt.Errorf("postgres store requires host")
		}
		if s.Database == "" {
			return fmt.Errorf("postgres store requires database")
		}
	}
	return nil
}
