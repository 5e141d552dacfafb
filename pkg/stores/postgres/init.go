package postgres

import (
	"log/slog"

	"github.com/code-vine/reflectivesql/pkg/store"
)

// Importing this package registers the PostgreSQL store:
//
//	import _ "github.com/code-vine/reflectivesql/pkg/stores/postgres"
func init() {
	store.Register("postgres", func(logger *slog.Logger) store.Store { return New(logger) })
}
