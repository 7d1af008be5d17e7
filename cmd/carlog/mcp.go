// ABOUTME: MCP serve command
// ABOUTME: Starts the MCP server for AI agent integration

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/carlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(st, mcp.WithLogger(logger), mcp.WithClock(now))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()

		logger.Info("mcp server starting", "backend", cfg.GetBackend())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
