package observability

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/go-datadog-otel/internal/config"
)

// Telemetry owns the process-wide telemetry state: the composed
// logging pipeline and the tracer provider. It is the handle returned
// from Start that the caller must retain for Stop.
type Telemetry struct {
	config   *config.Config
	logger   *Logger
	provider *Provider
	metrics  *Metrics
}

// Start initializes telemetry from the given configuration: it builds
// the structured JSON logging pipeline, installs it as the
// process-global logger (exactly once; a second Start is a logic
// error), then builds and registers the global tracer provider.
//
// Start must complete before any span or correlated log is produced.
// On failure the returned error is fatal for startup.
func Start(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	base, err := NewBaseLogger(LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	meta := ServiceMetadata{
		Service:     cfg.Service,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	}
	logger := NewLogger(base, meta)

	if err := InstallGlobalLogger(logger); err != nil {
		return nil, err
	}

	logger.Info("initializing telemetry",
		zap.String("service", cfg.Service),
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.String("agentHost", cfg.AgentHost),
	)

	provider := NewProvider(&TracerConfig{
		ServiceName:    cfg.Service,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		AgentHost:      cfg.AgentHost,
		Exporter:       ExporterType(cfg.TraceExporter),
		SampleRate:     1.0,
	}, base)

	if err := provider.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start tracer provider: %w", err)
	}

	logger.Info("telemetry initialized")

	return &Telemetry{
		config:   cfg,
		logger:   logger,
		provider: provider,
		metrics:  NewMetrics(""),
	}, nil
}

// Stop shuts down telemetry: it flushes and closes the tracer
// provider, then syncs the logger. Failures are reported on the
// returned error but must not prevent process exit; losing buffered
// spans on a failed flush is an accepted, reported degradation.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.logger.Info("shutting down telemetry")

	var errs []error

	if t.provider != nil {
		if err := t.provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down tracer provider: %w", err))
		}
	}

	if t.logger != nil {
		// Sync errors on stdout are expected and ignored.
		_ = t.logger.Sync()
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	t.logger.Info("telemetry shutdown complete")
	return nil
}

// Logger returns the correlated logger.
func (t *Telemetry) Logger() *Logger {
	return t.logger
}

// Provider returns the tracer provider handle.
func (t *Telemetry) Provider() *Provider {
	return t.provider
}

// Metrics returns the request metrics.
func (t *Telemetry) Metrics() *Metrics {
	return t.metrics
}
