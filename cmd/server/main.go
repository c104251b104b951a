// Package main is the entry point for the correlation demo service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/go-datadog-otel/internal/config"
	"github.com/vyrodovalexey/go-datadog-otel/internal/handlers"
	"github.com/vyrodovalexey/go-datadog-otel/internal/middleware"
	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.FromEnv(version)

	// Telemetry init must complete before the listener binds; a
	// failure here aborts startup.
	telemetry, err := observability.Start(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.Logger()
	logger.Info("starting server",
		observability.String("version", version),
		observability.String("buildTime", buildTime),
		observability.String("gitCommit", gitCommit),
		observability.String("address", cfg.ServerAddr),
	)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           buildRouter(cfg, telemetry),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	var metricsServer *observability.MetricsServer
	if cfg.MetricsAddr != "" {
		metricsServer = observability.NewMetricsServer(cfg.MetricsAddr, telemetry.Metrics(), logger.Zap())
		metricsServer.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	waitForShutdown(server, metricsServer, telemetry, serverErr)
}

// buildRouter assembles the gin engine with the telemetry middleware
// chain and the demo routes.
func buildRouter(cfg *config.Config, telemetry *observability.Telemetry) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORS(),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Metrics(telemetry.Metrics()),
		middleware.Logging(telemetry.Logger()),
	)

	handlers.New(telemetry.Logger(), cfg.Version).Register(router)
	return router
}

// waitForShutdown blocks until an interrupt arrives or the listener
// fails, then drains the server and flushes telemetry before exit.
// Telemetry shutdown errors are reported, never fatal: trace loss on a
// failed flush is an accepted degradation.
func waitForShutdown(
	server *http.Server,
	metricsServer *observability.MetricsServer,
	telemetry *observability.Telemetry,
	serverErr <-chan error,
) {
	logger := telemetry.Logger()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", observability.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", observability.Error(err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop metrics server", observability.Error(err))
		}
	}

	if err := telemetry.Stop(shutdownCtx); err != nil {
		logger.Error("failed to shut down telemetry", observability.Error(err))
	}

	os.Exit(exitCode)
}
