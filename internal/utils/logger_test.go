package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_LogPerformance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		level    zapcore.Level
		message  string
	}{
		{name: "fast", duration: 10 * time.Millisecond, level: zapcore.DebugLevel, message: "operation"},
		{name: "slow", duration: 2 * time.Second, level: zapcore.WarnLevel, message: "slow operation"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			core, logs := observer.New(zapcore.DebugLevel)
			l := &Logger{SugaredLogger: zap.New(core).Sugar()}

			l.LogPerformance("deploy", tt.duration)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
			assert.Equal(t, "deploy", entries[0].ContextMap()["operation"])
		})
	}
}
