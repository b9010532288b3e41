// Package config holds the engine tunables with their default values.
//
// Defaults are the single source of truth for the layout and synthesis
// constants; a TOML file can override any subset of them. CLI flags are
// applied on top of the loaded config by the caller.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Layout contains region analysis and placement tunables.
type Layout struct {
	// DefaultCanvasSize is the square working area used when no strokes exist.
	DefaultCanvasSize float64 `toml:"default_canvas_size"`
	// CanvasPadding expands the stroke union on all sides to form the working area.
	CanvasPadding float64 `toml:"canvas_padding"`
	// GridCellSize is the cell edge for empty-region flood analysis.
	GridCellSize float64 `toml:"grid_cell_size"`
	// ProximityMargin expands occupied rects when classifying grid cells.
	ProximityMargin float64 `toml:"proximity_margin"`
	// AnchorPadding separates placement candidates from their anchor.
	AnchorPadding float64 `toml:"anchor_padding"`
	// BreathingMargin expands occupied rects during collision tests.
	BreathingMargin float64 `toml:"breathing_margin"`
	// MaxOverlapRatio is the per-rect overlap tolerance for a clean placement.
	MaxOverlapRatio float64 `toml:"max_overlap_ratio"`
	// PriorResponseMinWidth is the width threshold for the prior-response anchor heuristic.
	PriorResponseMinWidth float64 `toml:"prior_response_min_width"`
	// PriorResponseOverlapFrac is the recent-region overlap tolerance for that heuristic.
	PriorResponseOverlapFrac float64 `toml:"prior_response_overlap_frac"`
	// ContentWidth and ContentHeight are the default content box for placements.
	ContentWidth  float64 `toml:"content_width"`
	ContentHeight float64 `toml:"content_height"`
}

// Script contains glyph synthesis tunables.
type Script struct {
	// FontName selects a system font via lookup; empty uses the embedded font.
	FontName string `toml:"font_name"`
	// FontPath loads a TTF file directly and wins over FontName.
	FontPath string `toml:"font_path"`
	// GlyphHeight is the target cap height of synthesized characters, in canvas units.
	GlyphHeight float64 `toml:"glyph_height"`
	// LineHeight is the vertical distance between wrapped lines.
	LineHeight float64 `toml:"line_height"`
	// CharSpacing is added to every glyph's advance width.
	CharSpacing float64 `toml:"char_spacing"`
	// SpaceWidth is the cursor advance for a space character.
	SpaceWidth float64 `toml:"space_width"`
	// StrokeWidth is the visual weight of synthesized strokes.
	StrokeWidth float64 `toml:"stroke_width"`
	// PointInterval is the per-point time offset increment.
	PointInterval time.Duration `toml:"point_interval"`
}

// Playback contains reveal timing tunables.
type Playback struct {
	// SpaceDelay follows an empty (space) group.
	SpaceDelay time.Duration `toml:"space_delay"`
	// GroupDelay follows an ordinary character group.
	GroupDelay time.Duration `toml:"group_delay"`
	// ComplexDelay follows a group with more than ComplexThreshold strokes.
	ComplexDelay time.Duration `toml:"complex_delay"`
	// ComplexThreshold is the stroke count above which a group is complex.
	ComplexThreshold int `toml:"complex_threshold"`
}

// Session contains assist-cycle tunables.
type Session struct {
	// Debounce is the quiet period after the last stroke before a cycle starts.
	Debounce time.Duration `toml:"debounce"`
	// RecentCount is how many trailing strokes count as the recent writing.
	RecentCount int `toml:"recent_count"`
}

// Snapshot contains debug raster rendering tunables.
type Snapshot struct {
	// MaxEdge bounds the longer edge of the rendered canvas image.
	MaxEdge int `toml:"max_edge"`
}

// Config is the full engine configuration.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Script   Script   `toml:"script"`
	Playback Playback `toml:"playback"`
	Session  Session  `toml:"session"`
	Snapshot Snapshot `toml:"snapshot"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			DefaultCanvasSize:        1000,
			CanvasPadding:            100,
			GridCellSize:             100,
			ProximityMargin:          20,
			AnchorPadding:            40,
			BreathingMargin:          10,
			MaxOverlapRatio:          0.20,
			PriorResponseMinWidth:    200,
			PriorResponseOverlapFrac: 0.30,
			ContentWidth:             500,
			ContentHeight:            200,
		},
		Script: Script{
			GlyphHeight:   34,
			LineHeight:    50,
			CharSpacing:   2,
			SpaceWidth:    18,
			StrokeWidth:   2.5,
			PointInterval: 12 * time.Millisecond,
		},
		Playback: Playback{
			SpaceDelay:       120 * time.Millisecond,
			GroupDelay:       280 * time.Millisecond,
			ComplexDelay:     450 * time.Millisecond,
			ComplexThreshold: 5,
		},
		Session: Session{
			Debounce:    800 * time.Millisecond,
			RecentCount: 3,
		},
		Snapshot: Snapshot{
			MaxEdge: 1568,
		},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default values. A missing file is an error; use Default directly
// when no config file is expected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	if c.Layout.GridCellSize <= 0 {
		return fmt.Errorf("layout.grid_cell_size must be positive, got %v", c.Layout.GridCellSize)
	}
	if c.Layout.MaxOverlapRatio < 0 || c.Layout.MaxOverlapRatio > 1 {
		return fmt.Errorf("layout.max_overlap_ratio must be in [0,1], got %v", c.Layout.MaxOverlapRatio)
	}
	if c.Script.LineHeight <= 0 {
		return fmt.Errorf("script.line_height must be positive, got %v", c.Script.LineHeight)
	}
	if c.Session.RecentCount < 1 {
		return fmt.Errorf("session.recent_count must be at least 1, got %d", c.Session.RecentCount)
	}
	if c.Playback.ComplexThreshold < 0 {
		return fmt.Errorf("playback.complex_threshold must not be negative, got %d", c.Playback.ComplexThreshold)
	}
	return nil
}
