package commands

import (
	"fmt"
	"time"

	"bank-ledger/config"
	"bank-ledger/internal/service"

	"github.com/spf13/cobra"
)

func newTokenCommand(configPath *string) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator JWT for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not configured (set LEDGER_JWT_SECRET)")
			}
			if ttl <= 0 {
				ttl = cfg.JWT.Expiry
			}

			token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, ttl, cfg.JWT.Issuer).Generate(subject)
			if err != nil {
				return fmt.Errorf("generating token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "subject %q, expires %s\n", subject, expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "operator name recorded in request and audit logs (required)")
	_ = cmd.MarkFlagRequired("subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default jwt.expiry)")

	return cmd
}
