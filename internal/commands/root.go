package commands

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X bank-ledger/internal/commands.Version=...".
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "ledgerctl",
		Short:   "Bank ledger administration",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")

	rootCmd.AddCommand(newDemoCommand(&configPath))
	rootCmd.AddCommand(newTokenCommand(&configPath))
	rootCmd.AddCommand(newMigrateCommand(&configPath))

	return rootCmd
}
