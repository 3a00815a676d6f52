package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestConfigure_FiltersByLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: LevelWarn, Output: &buf}))

	slog.Info("quiet")
	slog.Warn("loud")

	require.NotContains(t, buf.String(), "quiet")
	require.Contains(t, buf.String(), "loud")
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(Options{Format: "JSON", Output: &buf})
	require.NoError(t, err)

	slog.New(h).Info("step_completed", slog.String("kind", "REPORT"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "step_completed", rec["msg"])
	require.Equal(t, "REPORT", rec["kind"])
}

func TestNewHandler_RejectsUnknownFormat(t *testing.T) {
	_, err := NewHandler(Options{Format: "xml"})
	require.ErrorContains(t, err, `invalid log format "xml"`)

	_, err = NewHandler(Options{Level: "loud"})
	require.Error(t, err)
}
