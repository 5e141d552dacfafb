// Package sqlite provides the SQLite store.
//
// The default build uses the pure Go modernc.org/sqlite driver; build with
// -tags cgo_sqlite (and CGO_ENABLED=1) to use mattn/go-sqlite3 instead.
//
// The store holds a single connection so that in-memory databases survive
// across statements. Callers sharing a store are serialized on that
// connection one statement at a time; generated keys come back from the
// INSERT itself through RETURNING.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/store"
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

var (
	initOnce sync.Once
	initErr  error
)

// initDriver checks once per process that the selected driver is linked in.
func initDriver() error {
	initOnce.Do(func() {
		if !slices.Contains(sql.Drivers(), driverName) {
			initErr = fmt.Errorf("sqlite driver %q is not registered", driverName)
		}
	})
	return initErr
}

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "purego" for modernc.org/sqlite or "cgo" for mattn/go-sqlite3.
func DriverType() string {
	return driverType
}

// Store implements store.Store for SQLite.
type Store struct {
	store.BaseSQLStore
}

// New creates a new SQLite store instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		BaseSQLStore: store.BaseSQLStore{Logger: logger, SQLDialect: dialect.SQLite},
	}
}

// Open creates and connects a store in one step.
func Open(ctx context.Context, cfg core.StoreConfig, logger *slog.Logger) (*Store, error) {
	s := New(logger)
	if err := s.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenMemory opens a private in-memory database with foreign keys enforced.
func OpenMemory(ctx context.Context, logger *slog.Logger) (*Store, error) {
	return Open(ctx, core.StoreConfig{Type: "sqlite", Path: MemoryPath}, logger)
}

// Connect opens the database file named by cfg.Path (in-memory when empty).
//
// Recognized options:
//   - foreign_keys: enforce foreign-key constraints (default true)
//   - journal_mode: journal mode pragma (default WAL for files, unset in memory)
func (s *Store) Connect(ctx context.Context, cfg core.StoreConfig) error {
	if err := initDriver(); err != nil {
		return err
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return err
	}

	s.Logger.Debug("connecting to sqlite",
		slog.String("path", pathOrMemory(cfg.Path)),
		slog.String("driver", driverType))

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	return nil
}

// buildDSN constructs the driver DSN with the connection pragmas applied.
func buildDSN(cfg core.StoreConfig) (string, error) {
	path := pathOrMemory(cfg.Path)

	foreignKeys, err := strconv.ParseBool(cfg.Option("foreign_keys", "true"))
	if err != nil {
		return "", fmt.Errorf("invalid foreign_keys option: %w", err)
	}

	journal := ""
	if !IsMemory(path) {
		journal = "WAL"
	}
	journal = cfg.Option("journal_mode", journal)

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmaParams(foreignKeys, journal), nil
}

func pathOrMemory(path string) string {
	if strings.TrimSpace(path) == "" {
		return MemoryPath
	}
	return path
}

// IsMemory reports whether path names an in-memory database.
func IsMemory(path string) bool {
	return path == "" || path == MemoryPath || strings.Contains(path, "mode=memory")
}
