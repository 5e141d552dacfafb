package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/code-vine/reflectivesql/pkg/ddl"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/code-vine/reflectivesql/pkg/mapper"
	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Create the tables of the mapped entities",
		Long: `Create every registered entity's table in the configured store.
Tables that already exist are left untouched, so apply can be rerun safely.`,
		Example: `  reflectsql apply --database shelf.db`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			entities := entity.Registered()
			if err := mapper.CreateSchema(cmd.Context(), cmdCtx.Store, entities...); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}

			ordered, err := ddl.DependencyOrder(entities...)
			if err != nil {
				return err
			}
			tables := make([]string, len(ordered))
			for i, e := range ordered {
				tables[i] = e.Table
			}
			cmdCtx.Logger.Info("schema applied", slog.Int("tables", len(tables)))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d tables: %s\n", len(tables), strings.Join(tables, ", "))
			return nil
		},
	}
}
