// Package render produces raster snapshots of the ink canvas.
//
// Snapshots are what the reasoning service sees: a white page with the user's
// strokes drawn as smooth polylines, the recent writing region optionally
// tinted so the service knows where attention belongs, and an optional region
// overlay for debugging layout decisions. Output is bounded to a maximum long
// edge so uploads stay small regardless of canvas extent.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/paperjot/inkwell/pkg/canvas"
	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
)

// Options controls snapshot rendering.
type Options struct {
	// MaxEdge bounds the longer output dimension in pixels. Zero means the
	// configured default.
	MaxEdge int

	// HighlightRecent tints strokes inside the recent writing region.
	HighlightRecent bool

	// ShowRegions draws occupied and empty region outlines for debugging.
	ShowRegions bool
}

// Renderer rasterizes strokes into canvas snapshots.
type Renderer struct {
	cfg config.Snapshot
}

// New creates a Renderer with the given snapshot configuration.
func New(cfg config.Snapshot) *Renderer {
	return &Renderer{cfg: cfg}
}

// Snapshot renders the strokes onto a white page covering the metadata's
// working area and returns the image, downscaled so its long edge does not
// exceed opts.MaxEdge.
func (r *Renderer) Snapshot(meta canvas.Metadata, strokes []ink.Stroke, opts Options) image.Image {
	area := meta.CanvasSize
	w, h := int(area.Width), int(area.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Page coordinates shift so the working area's origin lands at (0,0).
	dc.Translate(-area.X, -area.Y)

	for i := range strokes {
		s := &strokes[i]
		c := ink.UserInk
		if opts.HighlightRecent && meta.RecentWritingRegion != nil &&
			meta.RecentWritingRegion.Intersects(s.Bounds()) {
			c = ink.RecentHighlight
		}
		drawStroke(dc, s, c)
	}

	if opts.ShowRegions {
		drawRegions(dc, meta)
	}

	maxEdge := opts.MaxEdge
	if maxEdge <= 0 {
		maxEdge = r.cfg.MaxEdge
	}

	img := dc.Image()
	if w > maxEdge || h > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}
	return img
}

// EncodePNG renders a snapshot and returns it PNG-encoded, ready to hand to
// the reasoning service.
func (r *Renderer) EncodePNG(meta canvas.Metadata, strokes []ink.Stroke, opts Options) ([]byte, error) {
	img := r.Snapshot(meta, strokes, opts)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawStroke(dc *gg.Context, s *ink.Stroke, c color.Color) {
	if len(s.Points) == 0 {
		return
	}
	dc.SetColor(c)
	dc.SetLineWidth(s.Width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	if len(s.Points) == 1 {
		p := s.Points[0].Pos
		dc.DrawCircle(p.X, p.Y, s.Width/2)
		dc.Fill()
		return
	}

	dc.MoveTo(s.Points[0].Pos.X, s.Points[0].Pos.Y)
	for _, pt := range s.Points[1:] {
		dc.LineTo(pt.Pos.X, pt.Pos.Y)
	}
	dc.Stroke()
}

func drawRegions(dc *gg.Context, meta canvas.Metadata) {
	dc.SetLineWidth(1)

	dc.SetRGBA(0.85, 0.27, 0.18, 0.8)
	for _, r := range meta.OccupiedRegions {
		drawRect(dc, r)
	}

	dc.SetRGBA(0.15, 0.55, 0.25, 0.8)
	for _, r := range meta.EmptyRegions {
		drawRect(dc, r)
	}

	if meta.RecentWritingRegion != nil {
		dc.SetRGBA(0.15, 0.40, 0.85, 0.8)
		drawRect(dc, *meta.RecentWritingRegion)
	}
}

func drawRect(dc *gg.Context, r geom.Rect) {
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()
}
