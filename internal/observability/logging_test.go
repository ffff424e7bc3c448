package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"json info", config.LoggingConfig{Level: "info", Format: "json"}, false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, false},
		{"json warn", config.LoggingConfig{Level: "warn", Format: "json"}, false},
		{"json error", config.LoggingConfig{Level: "error", Format: "json"}, false},
		{"unknown level", config.LoggingConfig{Level: "trace", Format: "json"}, true},
		{"unknown format", config.LoggingConfig{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			// Child loggers with attached ids are the common usage.
			logger.With(zap.String("room_id", "room-1")).Debug("smoke")
		})
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "error", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
}
