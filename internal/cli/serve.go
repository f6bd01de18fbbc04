package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/upkeep/internal/adapters/httpapi"
	"github.com/example/upkeep/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Serve the REST/JSON task API plus /healthz and /metrics until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = wire.Config().HTTPAddr
		}

		server := httpapi.NewServer(wire.TaskService(), wire.Database(), wire.Logger(), wire.Metrics(), wire.Registry())
		return server.Start(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to config http_addr)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
