package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-keeper/internal/fixtures"
	"github.com/jonathan/portfolio-keeper/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local editor API server",
	Long:  `Start an HTTP server on the loopback interface exposing the auto-saving draft editor, import/export and backups.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	initial, source := a.load(ctx)
	a.log.Info("Loaded portfolio", "source", source)

	srv := server.New(server.Config{Host: serveHost, Port: servePort}, server.Deps{
		Store:    a.store,
		Gateway:  a.gateway,
		Initial:  initial,
		Defaults: fixtures.Default,
		Delay:    a.cfg.DebounceDelay(),
		Logger:   a.log,
	})
	return srv.Start(ctx)
}
