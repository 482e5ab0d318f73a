package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixeltruth/pixeltruth/internal/config"
	"github.com/pixeltruth/pixeltruth/internal/gateway"
	"github.com/pixeltruth/pixeltruth/internal/logger"
	"github.com/pixeltruth/pixeltruth/internal/monitoring"
	"github.com/pixeltruth/pixeltruth/internal/startup"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.LoggingLevel)
	log.Info("Starting pixel truth gateway",
		"logging_level", cfg.Server.LoggingLevel,
		"port", cfg.Server.Port,
		"environment", cfg.Remote.Environment,
	)
	config.PrintConfig(log, cfg)

	metrics := monitoring.New(cfg.Monitoring.PrometheusEnabled)
	components, err := startup.Build(cfg, nil, log, metrics)
	if err != nil {
		log.Error("Failed to build resolver", "error", err)
		os.Exit(1)
	}
	components.LogRewriteRules(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The app is usable before the probe answers; requests are mocked
	// until it reports the remote as available.
	components.Prober.Start(ctx)

	server := newServer(cfg, components, log)

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server shutdown complete")
}

func newServer(cfg *config.Config, c *startup.Components, log *slog.Logger) *http.Server {
	gw := gateway.New(gatewayConfig(cfg), c.Resolver, c.Status, log)
	if cfg.Monitoring.PrometheusEnabled {
		log.Info("Prometheus metrics enabled", "path", "/metrics")
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func gatewayConfig(cfg *config.Config) gateway.Config {
	return gateway.Config{
		Origin:            cfg.RemoteOrigin(),
		MaxUploadBytes:    int64(cfg.Server.MaxUploadSizeMB) * 1024 * 1024,
		HealthCheckPath:   cfg.Monitoring.HealthCheckPath,
		PrometheusEnabled: cfg.Monitoring.PrometheusEnabled,
		StaticDir:         cfg.Server.StaticDir,
		MockProfile:       cfg.Demo.MockProfile,
		DemoMode:          cfg.Demo.Enabled,
	}
}
