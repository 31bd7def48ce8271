package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from configuration strings to zap levels.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"":        zapcore.InfoLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("verbose")
	require.False(t, ok)
}

// TestWithLevel_FiltersEntries ensures the level option raises the threshold of a core.
func TestWithLevel_FiltersEntries(t *testing.T) {
	t.Parallel()

	l := New(zapcore.DebugLevel, WithLevel(zapcore.WarnLevel))

	require.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Desugar().Core().Enabled(zapcore.ErrorLevel))
}

// TestSetLevelFromString changes the global level and rejects unknown names.
func TestSetLevelFromString(t *testing.T) {
	previous := Level()
	defer SetLevel(previous)

	require.NoError(t, SetLevelFromString("warning"))
	require.Equal(t, zapcore.WarnLevel, Level())

	require.Error(t, SetLevelFromString("verbose"))
	require.Equal(t, zapcore.WarnLevel, Level())
}
