package observability

import (
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured log field.
type Field = zap.Field

// Field constructors for convenience.
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Error    = zap.Error
	Any      = zap.Any
	Duration = zap.Duration
)

// ErrLoggerInstalled is returned when the global logger is installed a
// second time. A global can only be installed once; callers must treat
// this as a fatal logic error, not a recoverable condition.
var ErrLoggerInstalled = errors.New("observability: global logger already installed")

// LogConfig holds configuration for the base logger.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// Format is the output format: "json" or "console".
	Format string

	// Output is the output destination: "stdout" or "stderr".
	Output string
}

// DefaultLogConfig returns default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// NewBaseLogger creates the structured sink at the bottom of the
// logging pipeline. An unparsable level is an initialization failure.
func NewBaseLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	switch cfg.Output {
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writeSyncer, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

var (
	globalMu        sync.RWMutex
	globalLogger    *Logger
	globalInstalled bool
)

// InstallGlobalLogger installs the composed logging pipeline as the
// process-wide default. It succeeds exactly once for the process
// lifetime; a second call returns ErrLoggerInstalled.
func InstallGlobalLogger(logger *Logger) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalInstalled {
		return ErrLoggerInstalled
	}
	globalLogger = logger
	globalInstalled = true
	return nil
}

// L returns the global logger. Before installation it returns a nop
// logger so early call sites never panic.
func L() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return NewLogger(zap.NewNop(), ServiceMetadata{})
	}
	return globalLogger
}

// resetGlobalLogger clears the exactly-once install state. Tests only.
func resetGlobalLogger() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = nil
	globalInstalled = false
}
