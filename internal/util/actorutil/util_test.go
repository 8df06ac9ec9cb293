package actorutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, SlogLevel(zapcore.DebugLevel))
	assert.Equal(t, slog.LevelInfo, SlogLevel(zapcore.InfoLevel))
	assert.Equal(t, slog.LevelWarn, SlogLevel(zapcore.WarnLevel))
	assert.Equal(t, slog.LevelError, SlogLevel(zapcore.ErrorLevel))
	assert.Equal(t, slog.LevelError, SlogLevel(zapcore.FatalLevel))
}
