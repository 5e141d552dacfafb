package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/code-vine/reflectivesql/internal/cli/config"
	"github.com/code-vine/reflectivesql/pkg/store"
	"github.com/code-vine/reflectivesql/pkg/stores/sqlite"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  store.Store
}

// NewCommandContext connects to the configured store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	storeCfg := cfg.Store.Core()

	if err := ensureDatabaseDir(storeCfg.Type, storeCfg.Path); err != nil {
		return nil, nil, err
	}

	s, err := store.NewStore(storeCfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Connect(cmd.Context(), storeCfg); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s store: %w", storeCfg.Type, err)
	}

	cleanup := func() {
		if err := s.Close(); err != nil {
			logger.Warn("failed to close store", slog.String("error", err.Error()))
		}
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Store:  s,
	}, cleanup, nil
}

// ensureDatabaseDir creates the parent directory of a file-backed SQLite database.
func ensureDatabaseDir(storeType, path string) error {
	if storeType != "sqlite" && storeType != "sqlite3" {
		return nil
	}
	if sqlite.IsMemory(path) {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// newTable returns a table writer mirroring to cmd's output.
func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}
