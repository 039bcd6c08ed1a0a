package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/observability"
)

var restoreIndex int

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List stored backups, newest first",
	RunE:  runBackups,
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a backup as the current portfolio",
	Long:  "Saves backup entry --index (0 is newest, see 'backups') as the current record.",
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().IntVar(&restoreIndex, "index", 0, "Backup index to restore")
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackups(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	observability.NewPrinter(cmd.OutOrStdout()).PrintBackups(a.gateway.Backups(ctx))
	return nil
}

func runRestore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.gateway.Restore(ctx, restoreIndex)
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("RESTORE",
		fmt.Sprintf("Restored backup %d: %s", restoreIndex, record.Name))
	return nil
}
