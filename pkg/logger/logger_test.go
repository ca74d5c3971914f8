package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DEBUG,
		" INFO ":  INFO,
		"warning": WARN,
		"warn":    WARN,
		"error":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, DEBUG.zapLevel())
	assert.Equal(t, zapcore.ErrorLevel, ERROR.zapLevel())
	assert.Equal(t, zapcore.FatalLevel, FATAL.zapLevel())
}

func TestNopLogger(t *testing.T) {
	log := NewNop().With("component", "test")
	assert.NotPanics(t, func() {
		log.Info("member %s created", "M1")
		log.Warnw("cache miss", "key", "members:all")
	})
}
