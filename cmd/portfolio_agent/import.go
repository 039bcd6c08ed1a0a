package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/observability"
)

var importInput string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a portfolio JSON file",
	Long:  "Validates a portfolio JSON file and saves it as the current record. Nothing is written if the file is rejected.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importInput, "in", "i", "", "Path to portfolio JSON file (required)")

	if err := importCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(importInput)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	svc, coord := a.service(ctx)
	defer coord.Close()

	record, err := svc.ImportAndCommit(ctx, f)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("IMPORT",
		fmt.Sprintf("Imported and saved %s <%s>", record.Name, record.Email))
	return nil
}
