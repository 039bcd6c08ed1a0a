package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/observability"
	"github.com/jonathan/portfolio-keeper/internal/transfer"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the portfolio to the built-in default",
	Long:  "Asks for confirmation, then replaces the stored portfolio with the built-in default record.",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var confirmer transfer.Confirmer = transfer.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	if clearYes {
		confirmer = transfer.Always(true)
	}

	svc, coord := a.service(ctx)
	defer coord.Close()

	cleared, err := svc.ClearAll(ctx, confirmer)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if !cleared {
		printer.PrintMessage("CLEAR", "Cancelled; nothing changed")
		return nil
	}
	printer.PrintMessage("CLEAR", "All data cleared")
	return nil
}
