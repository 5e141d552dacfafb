// Package dialect describes the handful of SQL differences the mapper has to
// know about: how an auto-increment key is declared and how a generated key
// is read back after an INSERT.
package dialect

import "strings"

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name string

	// AutoIncrement is appended to the column definition of an
	// auto-increment primary key (e.g. "AUTOINCREMENT").
	AutoIncrement string

	// LastInsertID is the follow-up query that returns the key generated by
	// the most recent INSERT on the same session, for dialects without
	// RETURNING. Ignored when Returning is set.
	LastInsertID string

	// Returning reports whether generated keys are read back with
	// INSERT ... RETURNING instead of a follow-up query.
	Returning bool
}

// SQLite is the default dialect. RETURNING needs SQLite 3.35 or later, which
// both bundled drivers ship; a separate last_insert_rowid() query could
// observe another caller's INSERT on the shared connection.
var SQLite = &Dialect{
	Name:          "sqlite",
	AutoIncrement: "AUTOINCREMENT",
	Returning:     true,
}

// Postgres reads generated keys back through RETURNING since a follow-up
// lastval() may land on a different pooled connection.
var Postgres = &Dialect{
	Name:          "postgres",
	AutoIncrement: "GENERATED BY DEFAULT AS IDENTITY",
	Returning:     true,
}

// String returns the dialect name.
func (d *Dialect) String() string {
	if d == nil {
		return ""
	}
	return d.Name
}

// Is reports whether d has the given name (case-insensitive).
func (d *Dialect) Is(name string) bool {
	return d != nil && strings.EqualFold(d.Name, name)
}

// OrDefault returns d, or SQLite when d is nil.
func OrDefault(d *Dialect) *Dialect {
	if d == nil {
		return SQLite
	}
	return d
}
