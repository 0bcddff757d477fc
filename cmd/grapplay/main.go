package main

import (
	"os"

	"github.com/spf13/cobra"

	"grapplay/internal/interfaces/cli/migrate"
	"grapplay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grapplay",
		Short: "Grapplay settlement engine",
		Long:  `Payment verification, entitlement fulfillment and revenue recognition for the Grapplay marketplace.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
