//go:build !cgo_sqlite

package sqlite

import (
	"strings"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	driverName = "sqlite"
	driverType = "purego"
)

// pragmaParams renders connection pragmas in modernc.org/sqlite DSN syntax.
func pragmaParams(foreignKeys bool, journalMode string) string {
	fk := "0"
	if foreignKeys {
		fk = "1"
	}
	params := []string{"_pragma=foreign_keys(" + fk + ")"}
	if journalMode != "" {
		params = append(params, "_pragma=journal_mode("+journalMode+")")
	}
	return strings.Join(params, "&")
}
