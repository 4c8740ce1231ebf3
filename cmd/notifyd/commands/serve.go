package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/notifyd/internal/logger"
	"github.com/marmos91/notifyd/pkg/adminapi"
	"github.com/marmos91/notifyd/pkg/config"
	"github.com/marmos91/notifyd/pkg/registry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notifyd registry",
	Long: `Start the in-memory notification registry and, if enabled, the
read-only admin HTTP server.

Examples:
  # Run with default config location
  notifyd serve

  # Run with a custom config file
  notifyd serve --config /etc/notifyd/config.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := registry.Options{
		UseLocks:        cfg.Registry.UseLocks,
		BucketCount:     cfg.Registry.BucketCount,
		PortSendTimeout: cfg.Registry.PortSendTimeout,
	}
	reg := registry.New(opts)
	reg.SetMetrics(registry.NewMetrics(prometheus.DefaultRegisterer, reg))

	logger.Info("registry initialized",
		"use_locks", opts.UseLocks,
		"bucket_count", opts.BucketCount,
		"port_send_timeout", opts.PortSendTimeout.String())

	var adminSrv *adminapi.Server
	serverDone := make(chan error, 1)

	if cfg.Admin.Enabled {
		adminSrv = adminapi.NewServer(cfg.Admin.ListenAddr, reg)
		go func() {
			serverDone <- adminSrv.Start(ctx)
		}()
		logger.Info("admin server enabled", "addr", cfg.Admin.ListenAddr)
	} else {
		logger.Info("admin server disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("notifyd is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if adminSrv != nil {
			if err := <-serverDone; err != nil {
				logger.Error("admin server shutdown error", "error", err)
				return err
			}
		}
		logger.Info("notifyd stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("admin server error", "error", err)
			return err
		}
		logger.Info("admin server stopped")
	}

	return nil
}
