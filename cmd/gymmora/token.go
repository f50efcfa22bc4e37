package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nitesh-dev/gymmora-sub000/internal/service"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token for the owner",
		Long: `Sign a bearer token with jwt.secret (JWT_SECRET) for use against the
HTTP API. Anyone holding the secret can act as any owner.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not set")
			}
			token, expiresAt, err := service.NewAuthService(cfg.JWT.Secret, cfg.JWT.Expiration).IssueToken(opts.ownerID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
