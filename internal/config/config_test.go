package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchcore/internal/tool"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 100, cfg.HistoryDepth)
	assert.Equal(t, tool.DefaultOptions(), cfg.ToolOptions())
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.Origins())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SNAP_TO_GRID", "false")
	t.Setenv("HIT_THRESHOLD", "3.5")
	t.Setenv("ALLOWED_ORIGINS", " example.com , ,*.example.org")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	opts := cfg.ToolOptions()
	assert.False(t, opts.SnapToGrid)
	assert.Equal(t, 3.5, opts.HitThreshold)
	assert.Equal(t, []string{"example.com", "*.example.org"}, cfg.Origins())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero threshold", "HIT_THRESHOLD", "0"},
		{"negative grid", "SNAP_X", "-5"},
		{"flat canvas", "CANVAS_HEIGHT", "0"},
		{"unknown level", "LOG_LEVEL", "chatty"},
		{"malformed port", "PORT", "eighty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
