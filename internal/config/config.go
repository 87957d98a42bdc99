package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/tool"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	// Editor defaults applied to every session
	HitThreshold float64 `envconfig:"HIT_THRESHOLD" default:"7"`
	SnapToGrid   bool    `envconfig:"SNAP_TO_GRID" default:"true"`
	SnapX        float64 `envconfig:"SNAP_X" default:"15"`
	SnapY        float64 `envconfig:"SNAP_Y" default:"15"`
	TryToConnect bool    `envconfig:"TRY_TO_CONNECT" default:"true"`
	HistoryDepth int     `envconfig:"HISTORY_DEPTH" default:"100"`
	CanvasWidth  float64 `envconfig:"CANVAS_WIDTH" default:"1200"`
	CanvasHeight float64 `envconfig:"CANVAS_HEIGHT" default:"750"`
	DefaultStyle string  `envconfig:"DEFAULT_STYLE" default:"default"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HitThreshold <= 0 {
		return fmt.Errorf("HIT_THRESHOLD must be positive, got %v", c.HitThreshold)
	}
	if c.SnapToGrid && (c.SnapX <= 0 || c.SnapY <= 0) {
		return fmt.Errorf("SNAP_X and SNAP_Y must be positive when snapping, got %v and %v", c.SnapX, c.SnapY)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive, got %vx%v", c.CanvasWidth, c.CanvasHeight)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ToolOptions returns the tool settings every new editor starts with.
func (c *Config) ToolOptions() tool.Options {
	return tool.Options{
		SnapToGrid:   c.SnapToGrid,
		SnapX:        c.SnapX,
		SnapY:        c.SnapY,
		TryToConnect: c.TryToConnect,
		HitThreshold: c.HitThreshold,
		DefaultStyle: document.StyleHandle(c.DefaultStyle),
	}
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SlogLevel returns the configured log level. Load has already rejected
// unknown names.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
