package cli

import (
	"context"
	"fmt"
	"time"

	"resumefit/internal/observability"
	"resumefit/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume analysis",
	Long: `Start an HTTP server that provides REST API endpoints for resume analysis.

Available endpoints:
- POST /analyze: Score a resume against a job description
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, err := observability.NewManager(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}

	pipe, client, store, prompts, err := buildPipeline(cmd.Context(), cfg, logger, om.GetMetrics())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down observability providers", "error", err)
		}
		if err := prompts.Close(); err != nil {
			logger.Warn("Failed to close prompt watcher", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close oracle client", "error", err)
		}
	}()

	return server.NewServer(cfg, Version, pipe, client, store, om, logger).Start()
}
