package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spoor-app/spoor/internal/logging"
	"github.com/spoor-app/spoor/internal/server"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: from config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the spoor REST API server",
	Long:  "Serve the hunt, node and log endpoints over HTTP, backed by the local database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		srv := server.New(server.Options{
			DB:     database,
			Logger: logging.Component("server"),
		})
		return srv.ListenAndServe(ctx, addr)
	},
}
