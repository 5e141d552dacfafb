// Package store provides the executable store contract and a database/sql
// base implementation shared by concrete stores.
//
// Concrete stores live in pkg/stores/ subdirectories and register themselves
// from init(), the way database/sql drivers do.
package store

import (
	"context"

	"github.com/code-vine/reflectivesql/pkg/core"
)

// Store is an executable store with a connection lifecycle.
type Store interface {
	core.Executor

	// Connect opens the underlying connection using cfg.
	Connect(ctx context.Context, cfg core.StoreConfig) error

	// Close closes the connection and releases resources.
	Close() error
}
