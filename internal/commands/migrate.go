package commands

import (
	"fmt"

	"bank-ledger/config"
	pgStorage "bank-ledger/internal/adapter/storage/postgres"
	"bank-ledger/pkg/logger"

	"github.com/spf13/cobra"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log := logger.NewWithWriter(cfg.Log.Level, cmd.ErrOrStderr())
			if err := pgStorage.Migrate(cfg.Database, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
