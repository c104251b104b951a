// Package config loads service configuration from the environment.
//
// Every variable is optional and resolves to a documented default, so a
// missing variable is never an error.
package config

import "os"

// Default values for environment-sourced settings.
const (
	DefaultService     = "rust-datadog-otel"
	DefaultEnvironment = "development"
	DefaultAgentHost   = "localhost"
	DefaultServerAddr  = ":8080"
	DefaultMetricsAddr = ":9091"
	DefaultExporter    = "otlp-grpc"
)

// Config holds all environment-sourced configuration for the service.
// Values are read once at startup and fixed for the process lifetime.
type Config struct {
	// Service is the service name reported to the tracing backend
	// (DD_SERVICE).
	Service string

	// Version is the service version (DD_VERSION, falling back to the
	// build-time version string).
	Version string

	// Environment is the deployment environment (DD_ENV).
	Environment string

	// AgentHost is the network target of the trace agent
	// (DD_AGENT_HOST, falling back to HOST_IP).
	AgentHost string

	// LogLevel is the minimum log level (LOG_LEVEL). Empty means the
	// level is derived from Environment: debug for development, info
	// otherwise.
	LogLevel string

	// ServerAddr is the HTTP listen address (SERVER_ADDR).
	ServerAddr string

	// MetricsAddr is the Prometheus listen address (METRICS_ADDR).
	// Empty or "off" disables the metrics server.
	MetricsAddr string

	// TraceExporter selects the span exporter (DD_TRACE_EXPORTER):
	// "otlp-grpc", "stdout", or "none".
	TraceExporter string
}

// FromEnv builds a Config from the environment. buildVersion is the
// build-time version string used when DD_VERSION is unset.
func FromEnv(buildVersion string) *Config {
	cfg := &Config{
		Service:       getEnvOrDefault("DD_SERVICE", DefaultService),
		Version:       getEnvOrDefault("DD_VERSION", buildVersion),
		Environment:   getEnvOrDefault("DD_ENV", DefaultEnvironment),
		AgentHost:     getEnvOrDefault("DD_AGENT_HOST", getEnvOrDefault("HOST_IP", DefaultAgentHost)),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		ServerAddr:    getEnvOrDefault("SERVER_ADDR", DefaultServerAddr),
		MetricsAddr:   getEnvOrDefault("METRICS_ADDR", DefaultMetricsAddr),
		TraceExporter: getEnvOrDefault("DD_TRACE_EXPORTER", DefaultExporter),
	}

	if cfg.LogLevel == "" {
		if cfg.Environment == DefaultEnvironment {
			cfg.LogLevel = "debug"
		} else {
			cfg.LogLevel = "info"
		}
	}

	if cfg.MetricsAddr == "off" {
		cfg.MetricsAddr = ""
	}

	return cfg
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
