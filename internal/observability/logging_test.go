package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewBaseLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  LogConfig
		wantErr bool
	}{
		{name: "default config", config: DefaultLogConfig(), wantErr: false},
		{
			name:    "console format",
			config:  LogConfig{Level: "debug", Format: "console", Output: "stdout"},
			wantErr: false,
		},
		{
			name:    "stderr output",
			config:  LogConfig{Level: "info", Format: "json", Output: "stderr"},
			wantErr: false,
		},
		{
			name:    "invalid level",
			config:  LogConfig{Level: "loud", Format: "json", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewBaseLogger(tt.config)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
			}
		})
	}
}

func TestInstallGlobalLoggerExactlyOnce(t *testing.T) {
	resetGlobalLogger()
	t.Cleanup(resetGlobalLogger)

	logger := NewLogger(zap.NewNop(), ServiceMetadata{Service: "svc"})
	require.NoError(t, InstallGlobalLogger(logger))

	assert.Same(t, logger, L())

	// A second install is a logic error, never silently ignored.
	err := InstallGlobalLogger(NewLogger(zap.NewNop(), ServiceMetadata{}))
	assert.ErrorIs(t, err, ErrLoggerInstalled)

	// The first installation stays in effect.
	assert.Same(t, logger, L())
}

func TestGlobalLoggerBeforeInstall(t *testing.T) {
	resetGlobalLogger()
	t.Cleanup(resetGlobalLogger)

	require.NotNil(t, L())
	// Safe to log before installation.
	L().Info("early message")
}
