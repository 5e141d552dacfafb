// Package postgres provides the PostgreSQL store, built on the pgx
// database/sql driver.
//
// Statements are bound with pgx.NamedArgs, which understands the "@name"
// placeholders produced by the statement builders. Generated keys are read
// back through INSERT ... RETURNING.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/store"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// Store implements store.Store for PostgreSQL.
type Store struct {
	store.BaseSQLStore
}

// New creates a new PostgreSQL store instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		BaseSQLStore: store.BaseSQLStore{
			Logger:     logger,
			Binder:     namedArgs,
			SQLDialect: dialect.Postgres,
		},
	}
}

// Connect establishes a connection to PostgreSQL.
func (s *Store) Connect(ctx context.Context, cfg core.StoreConfig) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	dsn := buildPostgresDSN(cfg, params)

	s.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if params.MaxOpenConns > 0 {
		db.SetMaxOpenConns(params.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	return nil
}

// namedArgs binds statement parameters as a single pgx.NamedArgs argument.
func namedArgs(params []core.Param) []any {
	if len(params) == 0 {
		return nil
	}
	args := make(pgx.NamedArgs, len(params))
	for _, p := range params {
		args[p.Name] = p.Value
	}
	return []any{args}
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.StoreConfig, params *Params) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if params != nil && params.SSLMode != "" {
		sslmode = params.SSLMode
	}
	sslmode = cfg.Option("sslmode", sslmode)

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if params == nil {
		return dsn
	}
	if params.ConnectTimeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", params.ConnectTimeout)
	}
	if params.ApplicationName != "" {
		dsn += fmt.Sprintf(" application_name=%s", params.ApplicationName)
	}
	if params.SearchPath != "" {
		dsn += fmt.Sprintf(" search_path=%s", params.SearchPath)
	}
	return dsn
}
