package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SetsGlobalLevelFromConfig(t *testing.T) {
	cases := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"info", "info", zerolog.InfoLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"unrecognized falls back to info", "bogus", zerolog.InfoLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(Config{Level: tc.level})
			require.NotNil(t, l)
			assert.Equal(t, tc.want, zerolog.GlobalLevel())
		})
	}
}

func TestNew_FiltersBelowConfiguredLevel(t *testing.T) {
	l := New(Config{Level: "error"})
	var buf bytes.Buffer
	l = l.Output(&buf)

	l.Info().Msg("should be filtered")
	assert.Empty(t, buf.String())

	l.Error().Msg("should come through")
	assert.Contains(t, buf.String(), "should come through")
}

func TestNew_PrettyOutputStillCarriesMessage(t *testing.T) {
	l := New(Config{Level: "info", Pretty: true})
	var buf bytes.Buffer
	l = l.Output(&buf)
	l.Info().Str("k", "v").Msg("pretty test")
	assert.Contains(t, buf.String(), "pretty test")
}

func TestNew_SetsRFC3339TimeFormat(t *testing.T) {
	New(Config{Level: "info"})
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", zerolog.TimeFieldFormat)
}

func TestNew_IncludesCallerOnEveryEntry(t *testing.T) {
	l := New(Config{Level: "debug"})
	var buf bytes.Buffer
	l = l.Output(&buf)
	l.Debug().Msg("with caller")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestSetGlobalLogger_InstallsProvidedLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := zerolog.New(&buf).With().Str("component", "test").Logger()
	SetGlobalLogger(custom)

	log.Logger.Info().Msg("via global")
	assert.Contains(t, buf.String(), "via global")
	assert.Contains(t, buf.String(), `"component":"test"`)
}
