package sqlite

import (
	"log/slog"

	"github.com/code-vine/reflectivesql/pkg/store"
)

// Importing this package registers the SQLite store under "sqlite" and "sqlite3":
//
//	import _ "github.com/code-vine/reflectivesql/pkg/stores/sqlite"
func init() {
	factory := func(logger *slog.Logger) store.Store { return New(logger) }
	store.Register("sqlite", factory)
	store.Register("sqlite3", factory)
}
