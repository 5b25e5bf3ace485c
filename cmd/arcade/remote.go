package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/remote"
)

var flagRemoteAddr string

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Serve environments to training drivers over websocket",
	Long: `Start an HTTP server that exposes every environment over a
websocket JSON protocol. Each connection owns one environment instance.

Endpoints:
  GET /v1/envs       - List environments (JSON)
  GET /v1/env/{id}   - Upgrade to a websocket session

Messages:
  {"op":"spec"}
  {"op":"reset","seed":42}
  {"op":"step","action":{"index":2}}
  {"op":"step","action":{"vector":[0.3,0.7]}}
  {"op":"close"}

Examples:
  arcade remote
  arcade remote --addr 127.0.0.1:9000 --mode survival`,
	Run: runRemote,
}

func init() {
	remoteCmd.Flags().StringVar(&flagRemoteAddr, "addr", ":8765", "HTTP listen address (host:port)")
}

func runRemote(cmd *cobra.Command, _ []string) {
	logger := newLogger("remote")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := remote.NewServer(envOptions(cmd, logger), logger)
	if err := server.ListenAndServe(ctx, flagRemoteAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
