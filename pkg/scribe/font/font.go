// Package font provides glyph outlines as typed path segments.
//
// The rest of the engine never talks to a font library directly: it consumes
// a Face, a pull-based source of move/line/quad/cube/close segments in font
// units with the Y axis pointing up. The default backend parses TrueType
// fonts via freetype, with the Go Regular face embedded as a fallback so the
// engine works without any font on disk.
package font

import (
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/paperjot/inkwell/pkg/errors"
	"github.com/paperjot/inkwell/pkg/geom"
)

// SegmentOp is a path command.
type SegmentOp int

const (
	MoveTo SegmentOp = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

// Segment is one typed path command. Args usage depends on Op:
// MoveTo/LineTo use Args[0]; QuadTo uses Args[0] (control) and Args[1]
// (endpoint); CubeTo uses all three; Close uses none.
type Segment struct {
	Op   SegmentOp
	Args [3]geom.Point
}

// Glyph is one character's outline and metrics, scaled to the requested
// pixel size. Segments is nil for characters without a renderable outline;
// Advance is valid either way.
type Glyph struct {
	Segments []Segment
	Advance  float64
}

// Face produces glyph outlines at a fixed size.
type Face interface {
	// Glyph returns the outline for r. found is false when the font has no
	// renderable outline for r; the returned Advance still applies.
	Glyph(r rune) (g Glyph, found bool)
}

// =============================================================================
// TrueType Backend
// =============================================================================

// Options selects the font source for NewFace. FontPath wins over FontName;
// with neither set the embedded Go Regular face is used.
type Options struct {
	FontPath string  // explicit TTF file
	FontName string  // system font lookup by name
	Size     float64 // glyph size in canvas units (ppem)
}

// ttfFace is the freetype-backed Face.
type ttfFace struct {
	font  *truetype.Font
	scale fixed.Int26_6
}

// NewFace loads a TrueType face per the options.
func NewFace(opts Options) (Face, error) {
	data, err := fontData(opts)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontParse, err, "parse font")
	}
	size := opts.Size
	if size <= 0 {
		size = 32
	}
	return &ttfFace{
		font:  f,
		scale: fixed.Int26_6(size * 64),
	}, nil
}

func fontData(opts Options) ([]byte, error) {
	switch {
	case opts.FontPath != "":
		data, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontUnavailable, err, "read font %s", opts.FontPath)
		}
		return data, nil
	case opts.FontName != "":
		path, err := findfont.Find(opts.FontName)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontUnavailable, err, "locate font %q", opts.FontName)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontUnavailable, err, "read font %s", path)
		}
		return data, nil
	default:
		return goregular.TTF, nil
	}
}

// Glyph loads and decomposes one glyph outline. Coordinates are Y-up, in
// canvas units at the face size, with the pen origin at the baseline.
func (f *ttfFace) Glyph(r rune) (Glyph, bool) {
	idx := f.font.Index(r)

	var buf truetype.GlyphBuf
	if err := buf.Load(f.font, f.scale, idx, 0); err != nil {
		return Glyph{Advance: f.advance(idx)}, false
	}

	g := Glyph{
		Segments: decompose(&buf),
		Advance:  fixedToFloat(buf.AdvanceWidth),
	}
	if idx == 0 || len(g.Segments) == 0 {
		// Missing glyph or blank outline: report not-found so the caller
		// treats it as a space, but keep the measured advance.
		return Glyph{Advance: g.Advance}, false
	}
	return g, true
}

func (f *ttfFace) advance(idx truetype.Index) float64 {
	return fixedToFloat(f.font.HMetric(f.scale, idx).AdvanceWidth)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func fixedPoint(p truetype.Point) geom.Point {
	return geom.Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}

// decompose converts a TrueType quadratic outline into typed segments.
// TrueType contours are runs of on-curve and off-curve (control) points;
// consecutive off-curve points imply an on-curve midpoint between them.
func decompose(buf *truetype.GlyphBuf) []Segment {
	var segs []Segment
	start := 0
	for _, end := range buf.Ends {
		contour := buf.Points[start:end]
		start = end
		if len(contour) == 0 {
			continue
		}
		segs = decomposeContour(segs, contour)
	}
	return segs
}

func onCurve(p truetype.Point) bool { return p.Flags&0x01 != 0 }

func midpoint(a, b geom.Point) geom.Point {
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func decomposeContour(segs []Segment, contour []truetype.Point) []Segment {
	// Find an on-curve starting point; a contour of only control points
	// starts at the implied midpoint of the first and last.
	startIdx := -1
	for i, p := range contour {
		if onCurve(p) {
			startIdx = i
			break
		}
	}

	n := len(contour)
	count := n
	var startPt geom.Point
	var ctrl *geom.Point
	if startIdx >= 0 {
		startPt = fixedPoint(contour[startIdx])
	} else {
		// Every point is a control: start at the implied midpoint of the
		// last and first, with the first point as the pending control so
		// controls are consumed in contour order.
		startPt = midpoint(fixedPoint(contour[0]), fixedPoint(contour[n-1]))
		startIdx = 0
		c := fixedPoint(contour[0])
		ctrl = &c
		count = n - 1
	}

	segs = append(segs, Segment{Op: MoveTo, Args: [3]geom.Point{startPt}})

	emit := func(to geom.Point) []Segment {
		if ctrl != nil {
			s := Segment{Op: QuadTo, Args: [3]geom.Point{*ctrl, to}}
			ctrl = nil
			return append(segs, s)
		}
		return append(segs, Segment{Op: LineTo, Args: [3]geom.Point{to}})
	}

	for i := 1; i <= count; i++ {
		p := contour[(startIdx+i)%n]
		pt := fixedPoint(p)
		if onCurve(p) {
			segs = emit(pt)
			continue
		}
		if ctrl != nil {
			// Two control points in a row: an on-curve midpoint is implied.
			segs = emit(midpoint(*ctrl, pt))
		}
		c := pt
		ctrl = &c
	}
	// A trailing control point curves back to the contour start.
	if ctrl != nil {
		segs = emit(startPt)
	}
	return append(segs, Segment{Op: Close})
}
