package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nitesh-dev/gymmora-sub000/internal/analytics"
	"github.com/nitesh-dev/gymmora-sub000/internal/app"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var (
		metric  string
		top     int
		history bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print streaks, volume, muscle groups and personal records",
		Long: `Print the progress dashboard of the owner as JSON.

Examples:
  gymmora stats --owner alice
  gymmora stats --metric volume --top -1
  gymmora stats --history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := analytics.ParseMetric(metric)
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if history {
					summaries, err := a.Analytics.History(ctx, opts.ownerID)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), summaries)
				}
				dashboard, err := a.Analytics.Dashboard(ctx, opts.ownerID, service.DashboardQuery{Metric: m, TopN: top})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dashboard)
			})
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "count", "muscle group metric: count or volume")
	cmd.Flags().IntVar(&top, "top", 0, "muscle groups to show, 0 for the configured default, -1 for all")
	cmd.Flags().BoolVar(&history, "history", false, "list completed sessions instead")
	return cmd
}
