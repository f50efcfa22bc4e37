package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nitesh-dev/gymmora-sub000/internal/app"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import program documents",
		Long: `Import one or more program files. Each file holds a single document or
an array of documents in any supported shape. Every document is imported on its
own, so a broken document does not stop the others.

Examples:
  gymmora import --owner alice programs.json
  gymmora import --db ./gymmora.db a.json b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				rejected := 0
				for _, file := range args {
					raw, err := os.ReadFile(file)
					if err != nil {
						return fmt.Errorf("read %s: %w", file, err)
					}
					results, err := a.Imports.ImportBatch(ctx, opts.ownerID, raw)
					if err != nil && results == nil {
						fmt.Fprintf(out, "%s: %v\n", file, err)
						rejected++
						continue
					}
					for _, r := range results {
						if r.Status == service.ImportStatusImported {
							fmt.Fprintf(out, "%s[%d]: imported %q as %s\n", file, r.Index, r.Name, r.PlanID)
							continue
						}
						rejected++
						fmt.Fprintf(out, "%s[%d]: %s\n", file, r.Index, r.Status)
						for _, p := range r.Problems {
							fmt.Fprintf(out, "  - %s\n", p)
						}
					}
					if err != nil {
						return err
					}
				}
				if rejected > 0 {
					return fmt.Errorf("%d %s not imported", rejected, plural(rejected, "document", "documents"))
				}
				return nil
			})
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
