//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqlite

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	driverName = "sqlite3"
	driverType = "cgo"
)

// pragmaParams renders connection pragmas in mattn/go-sqlite3 DSN syntax.
func pragmaParams(foreignKeys bool, journalMode string) string {
	fk := "off"
	if foreignKeys {
		fk = "on"
	}
	params := "_foreign_keys=" + fk
	if journalMode != "" {
		params += "&_journal_mode=" + journalMode
	}
	return params
}
