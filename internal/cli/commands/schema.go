package commands

import (
	"fmt"

	"github.com/code-vine/reflectivesql/internal/cli/config"
	"github.com/code-vine/reflectivesql/pkg/ddl"
	"github.com/code-vine/reflectivesql/pkg/dialect"
	"github.com/code-vine/reflectivesql/pkg/entity"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var dialectName string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print CREATE TABLE statements for the mapped entities",
		Long: `Print the CREATE TABLE statement of every registered entity. Tables
referenced by foreign keys come first. Nothing is executed; use "apply" to
create the tables.

The dialect follows the configured store type unless --dialect is given.`,
		Example: `  # Schema for the configured store
  reflectsql schema

  # Schema as PostgreSQL would receive it
  reflectsql schema --dialect postgres`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := dialectName
			if name == "" {
				name = config.FromContext(cmd.Context()).Store.Type
			}
			d, ok := dialect.Get(name)
			if !ok {
				return fmt.Errorf("unknown dialect %q (available: %v)", name, dialect.List())
			}

			ordered, err := ddl.DependencyOrder(entity.Registered()...)
			if err != nil {
				return err
			}
			stmts, err := ddl.CreateTables(d, ordered...)
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), stmt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "", "SQL dialect (sqlite|postgres)")
	return cmd
}
