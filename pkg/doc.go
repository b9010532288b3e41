// Package pkg provides the core libraries for the Inkwell handwriting assist engine.
//
// # Overview
//
// Inkwell watches a handwritten canvas, figures out what the user wrote,
// finds free space near it, and writes a response back as timed vector
// handwriting. The pkg directory is organized into four main areas:
//
//  1. Geometry and ink data model ([geom], [ink])
//  2. Layout analysis and placement ([canvas], [place])
//  3. Synthesis and presentation ([scribe], [playback], [render])
//  4. Orchestration ([pipeline], [session], [reason], [cache])
//
// # Architecture
//
// The typical data flow through one assist cycle:
//
//	Capture surface (user strokes)
//	         ↓
//	    [canvas] package (working area, occupied/empty regions)
//	         ↓
//	    [render] package (PNG snapshot for the reasoning service)
//	         ↓
//	    [reason] package (recognized text + response text)
//	         ↓
//	    [place] package (collision-minimizing placement rect)
//	         ↓
//	    [scribe] package (text → per-character stroke groups)
//	         ↓
//	    [playback] package (timed reveal into the sink)
//
// # Quick Start
//
// Run one cycle against a scripted reasoning service:
//
//	import (
//	    "context"
//	    "github.com/paperjot/inkwell/pkg/config"
//	    "github.com/paperjot/inkwell/pkg/pipeline"
//	    "github.com/paperjot/inkwell/pkg/reason"
//	)
//
//	svc := reason.NewScripted(reason.Reply{
//	    RecognizedText: "2+2=",
//	    ResponseText:   "4",
//	})
//	runner, _ := pipeline.NewRunner(config.Default(), svc, nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), strokes, pipeline.Options{})
//	// result.Groups is the response as timed stroke groups at result.Placement.
//
// # Main Packages
//
// ## Data Model
//
// [geom] - Points and axis-aligned rectangles with the intersection, union,
// overlap, and containment operations the layout code is built on.
//
// [ink] - Strokes, sample points, and stroke groups. Strokes are immutable
// after construction; authorship is carried by color identity.
//
// ## Layout
//
// [canvas] - Region analysis: padded working area, per-stroke occupied
// regions, the recent writing region, and grid-derived empty regions.
//
// [place] - Placement solving: anchor selection, the below/right/above/left
// candidate ladder, empty-region fallback, and the forced degraded placement.
//
// ## Synthesis and Presentation
//
// [scribe] - Text to vector-ink synthesis: glyph outlines are tessellated
// into stroke polylines, one group per character, wrapped at word
// boundaries. [scribe/font] loads the embedded or a system TTF face.
//
// [playback] - Timed reveal of stroke groups into a sink with per-group
// delays and a cancellable handle.
//
// [render] - Raster snapshots of the canvas for the reasoning service, with
// recent-stroke tinting and an optional region overlay.
//
// ## Orchestration
//
// [pipeline] - The analyze → snapshot → reason → place → synthesize runner
// used by the CLI and the session controller. Stage methods are usable
// independently and cacheable stages go through [cache].
//
// [session] - The assist controller: debounced cycle triggering, new-ink
// cancellation, and the playback guard that ignores self-triggered sink
// changes.
//
// [reason] - The reasoning service boundary: request/reply types, reply
// validation, and a scripted implementation for demos and tests.
//
// [cache] - File-backed and null cache implementations with content-hash
// keys for replies and snapshots.
//
// [config] - Engine tunables with their default values; TOML overrides.
//
// [errors] - Coded errors shared across the engine.
//
// [observability] - Hook interfaces for engine, playback, and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/canvas/...       # Specific package
//
// [geom]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/geom
// [ink]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/ink
// [canvas]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/canvas
// [place]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/place
// [scribe]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/scribe
// [scribe/font]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/scribe/font
// [playback]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/playback
// [render]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/session
// [reason]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/reason
// [cache]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/cache
// [config]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/config
// [errors]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/errors
// [observability]: https://pkg.go.dev/github.com/paperjot/inkwell/pkg/observability
package pkg
