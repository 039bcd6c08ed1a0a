package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/observability"
	"github.com/jonathan/portfolio-keeper/internal/transfer"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the portfolio as JSON",
	Long:  "Writes the recovered portfolio to a pretty-printed JSON file.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", transfer.DefaultExportName, "Output file or directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	record, _ := a.load(ctx)
	path, err := transfer.ExportFile(exportOutput, record)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("EXPORT", fmt.Sprintf("Exported to %s", path))
	return nil
}
