package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nitesh-dev/gymmora-sub000/internal/app"
	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		outFile string
		archive bool
	)
	cmd := &cobra.Command{
		Use:   "export PLAN_ID",
		Short: "Export a plan as a program document",
		Long: `Write a plan as a normalized program document. The output imports
back into an equivalent plan.

With --archive the document is stored in the configured S3 bucket and a
temporary download link is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID := args[0]
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				plan, err := a.Programs.GetPlan(ctx, planID)
				if err != nil {
					return err
				}
				if plan.OwnerID != opts.ownerID {
					return &domain.NotFoundError{Entity: "plan", ID: planID}
				}

				if archive {
					archived, err := a.Imports.ArchiveExport(ctx, planID)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), archived)
				}

				doc, err := a.Imports.Export(ctx, planID)
				if err != nil {
					return err
				}
				if outFile == "" {
					return writeJSON(cmd.OutOrStdout(), doc)
				}
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("create %s: %w", outFile, err)
				}
				if err := writeJSON(f, doc); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&archive, "archive", false, "store the document in object storage")
	return cmd
}
