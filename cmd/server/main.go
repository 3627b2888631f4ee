// Package main is the workboard server: the MCP surface over the project,
// contract and employee collections.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rpggio/workboard/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "workboard",
	Short:         "Project, contract and employee board served over MCP",
	Long:          "workboard keeps projects, contracts and employees in live in-memory stores and serves filtering, aggregation and member resolution as MCP tools over stdio or HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr in stdio mode to keep stdout clean for JSON-RPC.
func newLogger(cfg config.Config) *slog.Logger {
	w := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
}
