package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ExporterType defines the type of trace exporter.
type ExporterType string

const (
	// ExporterOTLPGRPC exports spans to the trace agent via OTLP over gRPC.
	ExporterOTLPGRPC ExporterType = "otlp-grpc"
	// ExporterStdout writes spans to stdout for local development.
	ExporterStdout ExporterType = "stdout"
	// ExporterNone disables span export.
	ExporterNone ExporterType = "none"
)

// OTLP exporter defaults.
const (
	// DefaultOTLPPort is the OTLP gRPC port the trace agent listens on.
	DefaultOTLPPort = "4317"

	// DefaultOTLPTimeout is the default timeout for OTLP exporter operations.
	DefaultOTLPTimeout = 10 * time.Second

	// DefaultOTLPReconnectionPeriod is the reconnection period for the
	// OTLP gRPC connection.
	DefaultOTLPReconnectionPeriod = 10 * time.Second

	// DefaultBatchTimeout is the maximum time to wait before exporting
	// a batch of spans.
	DefaultBatchTimeout = 5 * time.Second

	// DefaultShutdownTimeout bounds the flush-and-close on shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Lifecycle misuse errors.
var (
	// ErrProviderStarted is returned when Start is called on an
	// already-running provider.
	ErrProviderStarted = errors.New("observability: tracer provider already started")

	// ErrUnknownExporter is returned for an unrecognized exporter type.
	ErrUnknownExporter = errors.New("observability: unknown trace exporter")
)

// TracerConfig holds configuration for the tracer provider.
type TracerConfig struct {
	// ServiceName is the service name reported with every span.
	ServiceName string

	// ServiceVersion is the service version.
	ServiceVersion string

	// Environment is the deployment environment.
	Environment string

	// AgentHost is the network target of the trace agent. The OTLP
	// gRPC endpoint is AgentHost:4317.
	AgentHost string

	// Exporter selects the span exporter.
	Exporter ExporterType

	// SampleRate is the sampling rate (0.0 to 1.0). Zero or negative
	// samples nothing; 1.0 and above samples everything.
	SampleRate float64

	// BatchTimeout is the maximum time to wait before exporting a
	// batch. Zero means DefaultBatchTimeout.
	BatchTimeout time.Duration

	// SpanExporter overrides the exporter built from Exporter when
	// non-nil. Used by tests to capture spans in memory.
	SpanExporter sdktrace.SpanExporter
}

// DefaultTracerConfig returns a TracerConfig with default values.
func DefaultTracerConfig() *TracerConfig {
	return &TracerConfig{
		ServiceName:    "rust-datadog-otel",
		ServiceVersion: "dev",
		Environment:    "development",
		AgentHost:      "localhost",
		Exporter:       ExporterOTLPGRPC,
		SampleRate:     1.0,
		BatchTimeout:   DefaultBatchTimeout,
	}
}

// Provider owns the process-wide tracer provider and its export
// pipeline. It is created exactly once at startup, registered as the
// global OpenTelemetry provider, and must be shut down explicitly
// before process exit: skipping shutdown risks losing buffered spans.
type Provider struct {
	config         *TracerConfig
	tracerProvider *sdktrace.TracerProvider
	logger         *zap.Logger
	started        bool
	stopped        bool
}

// NewProvider creates a new tracer provider.
func NewProvider(config *TracerConfig, logger *zap.Logger) *Provider {
	if config == nil {
		config = DefaultTracerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{config: config, logger: logger}
}

// Start builds the exporter and tracer provider and registers it as
// the global provider. Later span lookups anywhere in the process
// resolve through this registration. A failure here is fatal for
// startup; the caller must not bind its listener.
func (p *Provider) Start(ctx context.Context) error {
	if p.started {
		return ErrProviderStarted
	}

	res, err := p.createResource(ctx)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := p.createExporter(ctx)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(p.createSampler()),
	}
	if exporter != nil {
		batchTimeout := p.config.BatchTimeout
		if batchTimeout <= 0 {
			batchTimeout = DefaultBatchTimeout
		}
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(batchTimeout),
		))
	}

	p.tracerProvider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(p.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.started = true
	p.logger.Info("tracer provider started",
		zap.String("service", p.config.ServiceName),
		zap.String("exporter", string(p.config.Exporter)),
		zap.String("agentHost", p.config.AgentHost),
		zap.Float64("sampleRate", p.config.SampleRate),
	)
	return nil
}

// Shutdown flushes buffered spans and closes the export pipeline,
// blocking until done or ctx expires. It runs at most once; later
// calls are no-ops, and nothing exports after it returns.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider == nil || p.stopped {
		return nil
	}
	p.stopped = true

	p.logger.Info("shutting down tracer provider")
	return p.tracerProvider.Shutdown(ctx)
}

// Tracer returns a tracer from this provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return p.tracerProvider.Tracer(name)
}

// ForceFlush exports all ended spans that have not yet been exported.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.tracerProvider == nil {
		return nil
	}
	return p.tracerProvider.ForceFlush(ctx)
}

// createResource builds the service identity attached to every span.
func (p *Provider) createResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(p.config.ServiceName),
			semconv.ServiceVersion(p.config.ServiceVersion),
			semconv.DeploymentEnvironmentName(p.config.Environment),
		),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
	)
}

// createExporter builds the span exporter for the configured type.
// ExporterNone yields a nil exporter and a provider that keeps spans
// local.
func (p *Provider) createExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if p.config.SpanExporter != nil {
		return p.config.SpanExporter, nil
	}

	switch p.config.Exporter {
	case ExporterOTLPGRPC:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(net.JoinHostPort(p.config.AgentHost, DefaultOTLPPort)),
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithTimeout(DefaultOTLPTimeout),
			otlptracegrpc.WithReconnectionPeriod(DefaultOTLPReconnectionPeriod),
			otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{
				Enabled:         true,
				InitialInterval: 1 * time.Second,
				MaxInterval:     30 * time.Second,
				MaxElapsedTime:  1 * time.Minute,
			}),
		)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, p.config.Exporter)
	}
}

// createSampler creates a sampler based on the sampling rate.
func (p *Provider) createSampler() sdktrace.Sampler {
	switch {
	case p.config.SampleRate >= 1.0:
		return sdktrace.AlwaysSample()
	case p.config.SampleRate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(p.config.SampleRate)
	}
}
