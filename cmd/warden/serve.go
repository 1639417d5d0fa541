package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/warden/internal/bot"
	"github.com/groblegark/warden/internal/config"
	"github.com/groblegark/warden/internal/gateway"
	"github.com/groblegark/warden/internal/server"
	"github.com/groblegark/warden/internal/settings"
	"github.com/groblegark/warden/internal/snapshot"
	"github.com/groblegark/warden/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the warden daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Connect to the gateway bridge. Without NATS the daemon still
		// serves the admin API, but no events arrive and presence updates
		// go nowhere.
		var (
			notifier gateway.Notifier         = &gateway.NoopNotifier{}
			oracle   gateway.PermissionOracle = &gateway.DenyAllOracle{}
			bridge   *gateway.NATSGateway
		)
		if cfg.NATSURL != "" {
			bridge, err = gateway.Connect(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			notifier = bridge
			oracle = bridge
			logger.Info("gateway enabled", "nats_url", cfg.NATSURL)
		} else {
			logger.Info("gateway disabled (WARDEN_NATS_URL not set)")
		}

		// Create bot components.
		cache := settings.New()
		statusLoop := bot.NewStatusLoop(cache, notifier, cfg.PresenceInterval, logger)
		handler := bot.NewHandler(cache, store, notifier, oracle, statusLoop, logger)

		// Start the event dispatcher if the gateway is up.
		var dispatcher *bot.Dispatcher
		if bridge != nil {
			dispatcher = bot.NewDispatcher(handler, bridge, logger)
			if err := dispatcher.Start(); err != nil {
				statusLoop.Stop()
				bridge.Close()
				store.Close()
				return err
			}
			logger.Info("event dispatcher started")
		}

		// Start HTTP admin server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: server.New(cache).NewHTTPHandler(),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start snapshot scheduler if a destination is configured.
		var scheduler *snapshot.Scheduler
		if cfg.SnapshotInterval > 0 && cfg.SnapshotS3Bucket != "" {
			s3Dest, err := snapshot.NewS3Destination(
				context.Background(),
				cfg.SnapshotS3Bucket,
				cfg.SnapshotS3Key,
				cfg.SnapshotS3Region,
				cfg.SnapshotS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 snapshot destination", "err", err)
			} else {
				scheduler = snapshot.NewScheduler(store, []snapshot.Destination{s3Dest}, cfg.SnapshotInterval, logger)
				scheduler.Start()
				logger.Info("snapshot scheduler started",
					"interval", cfg.SnapshotInterval,
					"bucket", cfg.SnapshotS3Bucket,
					"key", cfg.SnapshotS3Key)
			}
		}

		logger.Info("warden started",
			"http_addr", cfg.HTTPAddr,
			"presence_interval", cfg.PresenceInterval,
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if dispatcher != nil {
			dispatcher.Stop()
			logger.Info("event dispatcher stopped")
		}

		statusLoop.Stop()
		logger.Info("status loop stopped")

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("snapshot scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if bridge != nil {
			if err := bridge.Close(); err != nil {
				logger.Error("error closing gateway", "err", err)
			}
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
