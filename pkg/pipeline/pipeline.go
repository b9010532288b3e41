// Package pipeline provides the core writing pipeline for Inkwell.
//
// This package implements the complete analyze → snapshot → reason → place →
// synthesize pipeline that can be used by CLI and embedding components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Analyze: Derive canvas metadata (occupied, recent, empty regions)
//  2. Snapshot: Render a raster image of the canvas for the reasoning service
//  3. Reason: Ask the reasoning service for the text to write
//  4. Place: Find a collision-minimizing rectangle for the response
//  5. Synthesize: Turn the response text into timed stroke groups
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cfg, svc, cache, nil, logger)
//	result, err := runner.Execute(ctx, strokes, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	groups := result.Groups
//
// Run individual stages:
//
//	meta := runner.Analyze(strokes, opts)
//	image, err := runner.Snapshot(meta, strokes, opts)
//	placement := runner.Place(meta, opts)
package pipeline

import (
	"time"

	"github.com/paperjot/inkwell/pkg/canvas"
	"github.com/paperjot/inkwell/pkg/cache"
	"github.com/paperjot/inkwell/pkg/errors"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/place"
	"github.com/paperjot/inkwell/pkg/reason"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains per-run configuration for the writing pipeline.
// This struct supports JSON serialization for session records.
type Options struct {
	// Analysis options
	RecentCount int `json:"recent_count,omitempty"`

	// Snapshot options
	MaxEdge     int  `json:"max_edge,omitempty"`
	ShowRegions bool `json:"show_regions,omitempty"`

	// Placement options. Zero means the configured content box.
	ContentWidth  float64 `json:"content_width,omitempty"`
	ContentHeight float64 `json:"content_height,omitempty"`

	// Refresh bypasses the reply cache.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Metadata is the analyzed canvas layout.
	Metadata canvas.Metadata

	// CanvasHash is the content hash of the stroke geometry.
	CanvasHash string

	// Image is the PNG snapshot handed to the reasoning service.
	Image []byte

	// Reply is the reasoning service's answer.
	Reply reason.Reply

	// Placement is where the response will be written.
	Placement place.Placement

	// Groups is the synthesized response, in reveal order.
	Groups []ink.StrokeGroup

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StrokeCount    int
	GroupCount     int
	AnalyzeTime    time.Duration
	SnapshotTime   time.Duration
	ReasonTime     time.Duration
	PlaceTime      time.Duration
	SynthesizeTime time.Duration
}

// CacheInfo tracks cache hits for each cacheable pipeline stage.
type CacheInfo struct {
	ReplyHit    bool // Whether the reasoning reply came from cache
	SnapshotHit bool // Whether the snapshot came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as
// calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.RecentCount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "recent_count must be >= 0")
	}
	if o.MaxEdge < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_edge must be >= 0")
	}
	if o.ContentWidth < 0 || o.ContentHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "content size must be >= 0")
	}
	o.validated = true
	return nil
}

// ReplyKeyOpts returns cache key options for the reasoning stage.
func (o *Options) ReplyKeyOpts() cache.ReplyKeyOpts {
	return cache.ReplyKeyOpts{
		RecentCount: o.RecentCount,
		MaxEdge:     o.MaxEdge,
	}
}

// SnapshotKeyOpts returns cache key options for the snapshot stage.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	return cache.SnapshotKeyOpts{
		MaxEdge:     o.MaxEdge,
		ShowRegions: o.ShowRegions,
	}
}
