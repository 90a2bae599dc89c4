package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{input: "", expected: LevelInfo},
		{input: "debug", expected: LevelDebug},
		{input: "DEBUG", expected: LevelDebug},
		{input: "Info", expected: LevelInfo},
		{input: "warn", expected: LevelWarn},
		{input: "error", expected: LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLevelToZapCoreLevel(t *testing.T) {
	tests := []struct {
		level    Level
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{Level(""), zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		got, err := tt.level.toZapCoreLevel()
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestConfigDebugForcesDebugLevel(t *testing.T) {
	c := &Config{Debug: true, Level: LevelError}

	got, err := c.toZapCoreLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, got)
}

func TestNewLoggerRejectsInvalidLevel(t *testing.T) {
	_, err := NewLogger(&Config{Level: Level("chatty")})
	require.Error(t, err)
}
