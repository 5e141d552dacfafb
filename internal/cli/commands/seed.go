package commands

import (
	"fmt"
	"os"

	"github.com/code-vine/reflectivesql/pkg/seed"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Load fixture rows into empty tables",
		Long: `Load fixture rows from a YAML file into the configured store.

The file maps table names to lists of rows:

  authors:
    - name: Ursula K. Le Guin
  books:
    - author_id: 1
      title: The Dispossessed
      status: 1

Tables are seeded in file order. A table that already holds rows is skipped,
so seeding can be rerun safely. Run "apply" first to create the tables.`,
		Example: `  # Seed from the configured fixtures file
  reflectsql seed

  # Seed from a specific file
  reflectsql seed testdata/shelf.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			path := cmdCtx.Cfg.Fixtures
			if len(args) == 1 {
				path = args[0]
			}

			f, err := os.Open(path) //nolint:gosec // fixture path comes from the user
			if err != nil {
				return fmt.Errorf("failed to open fixtures: %w", err)
			}
			defer func() { _ = f.Close() }()

			fixtures, err := seed.Load(f)
			if err != nil {
				return err
			}

			results, err := seed.Apply(cmd.Context(), cmdCtx.Store, fixtures, nil)
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}

			if len(results) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No fixtures in %s\n", path)
				return nil
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"Table", "Inserted", "Status"})
			for _, r := range results {
				status := "seeded"
				if r.Skipped {
					status = "skipped (not empty)"
				}
				t.AppendRow(table.Row{r.Table, r.Inserted, status})
			}
			t.Render()
			return nil
		},
	}
}
