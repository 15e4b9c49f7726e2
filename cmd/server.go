package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"winamp7/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the player server",
	Long:  `Start the HTTP server that owns the player, serves the owner API, the pop-out page and its WebSocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, cfg)
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
