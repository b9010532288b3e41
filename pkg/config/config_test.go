package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDefaultConstants(t *testing.T) {
	cfg := Default()
	if cfg.Layout.DefaultCanvasSize != 1000 {
		t.Errorf("DefaultCanvasSize = %v, want 1000", cfg.Layout.DefaultCanvasSize)
	}
	if cfg.Layout.GridCellSize != 100 {
		t.Errorf("GridCellSize = %v, want 100", cfg.Layout.GridCellSize)
	}
	if cfg.Layout.ProximityMargin != 20 {
		t.Errorf("ProximityMargin = %v, want 20", cfg.Layout.ProximityMargin)
	}
	if cfg.Layout.MaxOverlapRatio != 0.20 {
		t.Errorf("MaxOverlapRatio = %v, want 0.20", cfg.Layout.MaxOverlapRatio)
	}
	if cfg.Script.LineHeight != 50 {
		t.Errorf("LineHeight = %v, want 50", cfg.Script.LineHeight)
	}
}

func TestLoadOverridesSubset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.toml")
	content := `
[layout]
grid_cell_size = 50.0

[playback]
complex_threshold = 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Layout.GridCellSize != 50 {
		t.Errorf("GridCellSize = %v, want override 50", cfg.Layout.GridCellSize)
	}
	if cfg.Playback.ComplexThreshold != 8 {
		t.Errorf("ComplexThreshold = %d, want override 8", cfg.Playback.ComplexThreshold)
	}
	// Untouched keys keep defaults
	if cfg.Layout.AnchorPadding != 40 {
		t.Errorf("AnchorPadding = %v, want default 40", cfg.Layout.AnchorPadding)
	}
	if cfg.Playback.SpaceDelay != 120*time.Millisecond {
		t.Errorf("SpaceDelay = %v, want default 120ms", cfg.Playback.SpaceDelay)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero grid cell", func(c *Config) { c.Layout.GridCellSize = 0 }},
		{"overlap ratio above one", func(c *Config) { c.Layout.MaxOverlapRatio = 1.5 }},
		{"zero line height", func(c *Config) { c.Script.LineHeight = 0 }},
		{"zero recent count", func(c *Config) { c.Session.RecentCount = 0 }},
		{"negative complex threshold", func(c *Config) { c.Playback.ComplexThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should reject invalid config")
			}
		})
	}
}
