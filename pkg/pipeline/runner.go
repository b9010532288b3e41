package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/paperjot/inkwell/pkg/cache"
	"github.com/paperjot/inkwell/pkg/canvas"
	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/errors"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/observability"
	"github.com/paperjot/inkwell/pkg/place"
	"github.com/paperjot/inkwell/pkg/reason"
	"github.com/paperjot/inkwell/pkg/render"
	"github.com/paperjot/inkwell/pkg/scribe"
	"github.com/paperjot/inkwell/pkg/scribe/font"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the assist controller use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Config  config.Config
	Service reason.Service

	analyzer *canvas.Analyzer
	solver   *place.Solver
	synth    *scribe.Synthesizer
	renderer *render.Renderer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// The reasoning service may be nil; only Respond and Execute require one.
// Loading the configured font can fail, which is the only construction error.
func NewRunner(cfg config.Config, svc reason.Service, c cache.Cache, keyer cache.Keyer, logger *log.Logger) (*Runner, error) {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}

	face, err := font.NewFace(font.Options{
		FontPath: cfg.Script.FontPath,
		FontName: cfg.Script.FontName,
		Size:     cfg.Script.GlyphHeight,
	})
	if err != nil {
		return nil, err
	}

	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Config:   cfg,
		Service:  svc,
		analyzer: canvas.New(cfg.Layout),
		solver:   place.New(cfg.Layout),
		synth:    scribe.New(cfg.Script, face),
		renderer: render.New(cfg.Snapshot),
	}, nil
}

// Execute runs the complete analyze → snapshot → reason → place → synthesize
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, strokes []ink.Stroke, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyDefaults(&opts)

	result := &Result{}
	result.Stats.StrokeCount = len(strokes)

	// Stage 1: Analyze
	analyzeStart := time.Now()
	observability.Engine().OnAnalyzeStart(ctx, len(strokes))
	meta := r.analyzer.Analyze(strokes, opts.RecentCount)
	result.Metadata = meta
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	observability.Engine().OnAnalyzeComplete(ctx, len(strokes), len(meta.OccupiedRegions), result.Stats.AnalyzeTime, nil)

	result.CanvasHash = HashStrokes(strokes)

	r.Logger.Info("analyzed canvas",
		"strokes", len(strokes),
		"occupied", len(meta.OccupiedRegions),
		"empty", len(meta.EmptyRegions),
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Snapshot
	snapStart := time.Now()
	image, snapHit, err := r.SnapshotWithCacheInfo(ctx, result.CanvasHash, meta, strokes, opts)
	if err != nil {
		return nil, err
	}
	result.Image = image
	result.Stats.SnapshotTime = time.Since(snapStart)
	result.CacheInfo.SnapshotHit = snapHit

	r.Logger.Info("rendered snapshot",
		"bytes", len(image),
		"cached", snapHit,
		"duration", result.Stats.SnapshotTime)

	// Stage 3: Reason
	reasonStart := time.Now()
	reply, replyHit, err := r.RespondWithCacheInfo(ctx, result.CanvasHash, image, meta, opts)
	if err != nil {
		return nil, err
	}
	result.Reply = reply
	result.Stats.ReasonTime = time.Since(reasonStart)
	result.CacheInfo.ReplyHit = replyHit

	r.Logger.Info("received reply",
		"recognized", reply.RecognizedText,
		"cached", replyHit,
		"duration", result.Stats.ReasonTime)

	// Stage 4: Place
	placeStart := time.Now()
	placement := r.Place(meta, opts)
	result.Placement = placement
	result.Stats.PlaceTime = time.Since(placeStart)
	observability.Engine().OnPlaceComplete(ctx, placement.Degraded, result.Stats.PlaceTime, nil)

	r.Logger.Info("placed response",
		"rect", placement.Rect,
		"degraded", placement.Degraded,
		"duration", result.Stats.PlaceTime)

	// Stage 5: Synthesize
	synthStart := time.Now()
	observability.Engine().OnSynthesizeStart(ctx, len(reply.ResponseText))
	groups := r.Synthesize(reply.ResponseText, placement)
	result.Groups = groups
	result.Stats.GroupCount = len(groups)
	result.Stats.SynthesizeTime = time.Since(synthStart)
	observability.Engine().OnSynthesizeComplete(ctx, len(groups), result.Stats.SynthesizeTime, nil)

	r.Logger.Info("synthesized response",
		"groups", len(groups),
		"duration", result.Stats.SynthesizeTime)

	return result, nil
}

// Analyze derives canvas metadata for the strokes.
func (r *Runner) Analyze(strokes []ink.Stroke, opts Options) canvas.Metadata {
	r.applyDefaults(&opts)
	return r.analyzer.Analyze(strokes, opts.RecentCount)
}

// SnapshotWithCacheInfo renders the reasoning snapshot with caching and
// returns cache hit info.
func (r *Runner) SnapshotWithCacheInfo(ctx context.Context, canvasHash string, meta canvas.Metadata, strokes []ink.Stroke, opts Options) ([]byte, bool, error) {
	r.applyDefaults(&opts)

	cacheKey := r.Keyer.SnapshotKey(canvasHash, opts.SnapshotKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "snapshot")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "snapshot")

	data, err := r.renderer.EncodePNG(meta, strokes, render.Options{
		MaxEdge:         opts.MaxEdge,
		HighlightRecent: true,
		ShowRegions:     opts.ShowRegions,
	})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSnapshot); err == nil {
		observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
	}
	return data, false, nil
}

// Snapshot is a convenience wrapper that discards the cache hit info.
func (r *Runner) Snapshot(ctx context.Context, meta canvas.Metadata, strokes []ink.Stroke, opts Options) ([]byte, error) {
	data, _, err := r.SnapshotWithCacheInfo(ctx, HashStrokes(strokes), meta, strokes, opts)
	return data, err
}

// RespondWithCacheInfo asks the reasoning service for a reply with caching
// and returns cache hit info.
func (r *Runner) RespondWithCacheInfo(ctx context.Context, canvasHash string, image []byte, meta canvas.Metadata, opts Options) (reason.Reply, bool, error) {
	if r.Service == nil {
		return reason.Reply{}, false, errors.New(errors.ErrCodeService, "no reasoning service configured")
	}
	r.applyDefaults(&opts)

	cacheKey := r.Keyer.ReplyKey(canvasHash, opts.ReplyKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var reply reason.Reply
			if err := json.Unmarshal(data, &reply); err == nil {
				observability.Cache().OnCacheHit(ctx, "reply")
				return reply, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "reply")

	reply, err := r.Service.Respond(ctx, reason.Request{Image: image, Metadata: meta})
	if err != nil {
		return reason.Reply{}, false, err
	}
	if err := reason.ValidateReply(reply); err != nil {
		return reason.Reply{}, false, err
	}

	if data, err := json.Marshal(reply); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLReply); err == nil {
			observability.Cache().OnCacheSet(ctx, "reply", len(data))
		}
	}
	return reply, false, nil
}

// Place solves for the response rectangle using the configured content box
// unless the options override it.
func (r *Runner) Place(meta canvas.Metadata, opts Options) place.Placement {
	r.applyDefaults(&opts)
	size := geom.Point{X: opts.ContentWidth, Y: opts.ContentHeight}
	return r.solver.Solve(meta, size)
}

// Synthesize turns response text into timed stroke groups at the placement's
// origin, wrapped to its width.
func (r *Runner) Synthesize(text string, placement place.Placement) []ink.StrokeGroup {
	return r.synth.Synthesize(text, placement.Rect.Origin(), placement.Rect.Width)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyDefaults fills zero option fields from the runner's configuration.
func (r *Runner) applyDefaults(opts *Options) {
	if opts.RecentCount == 0 {
		opts.RecentCount = r.Config.Session.RecentCount
	}
	if opts.MaxEdge == 0 {
		opts.MaxEdge = r.Config.Snapshot.MaxEdge
	}
	if opts.ContentWidth == 0 {
		opts.ContentWidth = r.Config.Layout.ContentWidth
	}
	if opts.ContentHeight == 0 {
		opts.ContentHeight = r.Config.Layout.ContentHeight
	}
}

// HashStrokes derives a content hash from stroke geometry alone, so an
// unchanged drawing keys the same cache entries across runs regardless of
// stroke identity or capture time.
func HashStrokes(strokes []ink.Stroke) string {
	type flat struct {
		Points []geom.Point `json:"points"`
	}
	flats := make([]flat, len(strokes))
	for i := range strokes {
		pts := make([]geom.Point, len(strokes[i].Points))
		for j, p := range strokes[i].Points {
			pts[j] = p.Pos
		}
		flats[i] = flat{Points: pts}
	}
	data, _ := json.Marshal(flats)
	return cache.Hash(data)
}
