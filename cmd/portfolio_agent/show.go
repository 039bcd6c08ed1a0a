package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/observability"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored portfolio",
	Long:  "Recovers the portfolio (primary record, else newest backup, else the built-in default) and prints a summary. Never writes to the store.",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the full record as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	record, source := a.load(ctx)
	if showJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintPortfolio(&record, string(source))
	return nil
}
