package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "pinguard/internal/jwt_token"
	"pinguard/internal/platform/config"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage service tokens",
	}
	cmd.AddCommand(newTokenIssueCmd())
	return cmd
}

// newTokenIssueCmd signs a pin:check token with the configured key, issuer
// and audience.
func newTokenIssueCmd() *cobra.Command {
	var (
		caller string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a service token for a caller",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				return errors.New("SERVICE_TOKEN_SIGNING_KEY is not set")
			}
			tokens := jwttoken.NewJWTService(cfg.ServiceTokenSigningKey, cfg.ServiceTokenIssuer, cfg.ServiceTokenAudience)
			token, err := tokens.IssueToken(caller, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "caller identity placed in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("caller")
	return cmd
}
