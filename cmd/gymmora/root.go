package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nitesh-dev/gymmora-sub000/internal/app"
	"github.com/nitesh-dev/gymmora-sub000/internal/config"
	"github.com/nitesh-dev/gymmora-sub000/internal/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configDir string
	dbPath    string
	ownerID   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "gymmora",
		Short:         "Manage training programs, sessions and progress",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config", "c", ".",
		"directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "",
		"SQLite database file, overrides database settings from config")
	rootCmd.PersistentFlags().StringVarP(&opts.ownerID, "owner", "o", "local",
		"owner the command acts for")

	rootCmd.AddCommand(
		newImportCmd(opts),
		newExportCmd(opts),
		newPlansCmd(opts),
		newActivateCmd(opts),
		newStatsCmd(opts),
		newTokenCmd(opts),
	)
	return rootCmd
}

// loadConfig reads config and applies the flag overrides. Logs go to the
// command's stderr so stdout stays parseable.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = o.dbPath
	}
	// Sessions never outlive one command.
	cfg.Session.AutoTick = false

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   false,
		LogLevel:      "warn",
		LogFormatJSON: cfg.Log.JSON,
	})
	if cfg.Log.File == "" {
		log.SetOutput(cmd.ErrOrStderr())
	}
	return cfg, nil
}

// withApp opens the application for the duration of fn.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg, app.WithMetricsSubsystem("cli"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(context.Background()); closeErr != nil {
			log.WithError(closeErr).Warn("failed to close store")
		}
	}()
	return fn(ctx, a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
