// Package main provides the entry point for the portfolio keeper CLI and local editor server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/config"
)

var (
	configPath string
	storeFlag  string
	storeDir   string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio_agent",
	Short: "Portfolio keeper",
	Long: "Portfolio keeper stores a single portfolio/CV record with a rotating backup ring, " +
		"recovers it after corruption, and serves a local auto-saving editor API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (optional)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store backend: file, memory, badger, redis, postgres")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "Directory for the file and badger stores")
}

func main() {
	// Load .env file if it exists
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
