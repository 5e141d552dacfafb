// Package core defines the shared language of the reflectivesql system.
//
// This package contains:
//   - Statement and Param, the output of every SQL builder
//   - Executor and Cursor, the capability the mapper needs from a store
//   - StoreConfig, the connection settings handed to store implementations
//   - The error taxonomy shared by the metadata, codec and mapping layers
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
