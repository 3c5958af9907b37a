package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version проставляется при сборке через -ldflags
var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "consultation-service",
		Short:         "Consultation slot reservation and booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Path to TOML config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(quoteCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
