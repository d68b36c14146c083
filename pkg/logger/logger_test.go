package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLogger_With(t *testing.T) {
	l := NewLogger("debug")
	child := l.With("component", "test")
	assert.NotNil(t, child)
	assert.NotPanics(t, func() {
		child.Debug("debug message", "key", "value")
		NewNop().Info("discarded")
	})
}
