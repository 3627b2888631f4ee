package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/workboard/internal/config"
	"github.com/rpggio/workboard/internal/dashboard"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/mcp"
	"github.com/rpggio/workboard/internal/relation"
	"github.com/rpggio/workboard/internal/sqlite"
	"github.com/rpggio/workboard/internal/transport"
	"github.com/rpggio/workboard/internal/workspace"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP tools over stdio or HTTP",
	RunE:  runServe,
}

var (
	serveTransport string
	serveSeed      bool
)

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "stdio or http (overrides WORKBOARD_TRANSPORT_MODE)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "load the sample data before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serveTransport != "" {
		cfg.Transport.Mode = serveTransport
	}
	if serveSeed {
		cfg.DB.Seed = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if cfg.DB.Seed {
		if err := b.seed(ctx, logger); err != nil {
			return err
		}
	}

	ws, err := workspace.Open(ctx, b.docs, logger)
	if err != nil {
		return err
	}
	defer ws.Close()

	activitySvc := activity.NewService(sqlite.NewActivityRepository(b.db), logger)
	resolver := relation.NewResolver(b.docs,
		relation.WithMaxConcurrent(cfg.Relation.MaxConcurrentLookups),
		relation.WithLogger(logger),
	)
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  project.NewService(b.docs, resolver, activitySvc, logger),
			Contracts: contract.NewService(b.docs, activitySvc, logger),
			Employees: employee.NewService(b.docs, activitySvc, logger),
			Activity:  activitySvc,
			Dashboard: dashboard.NewService(b.docs, logger),
			Workspace: ws,
		},
		AllLabel: cfg.Query.AllLabel,
		Version:  version,
		Logger:   logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, mcpServer, cfg)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(mcpHandler, transport.Options{Token: cfg.Auth.Token, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Token != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
