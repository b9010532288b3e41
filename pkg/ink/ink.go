// Package ink defines the stroke data model shared by the whole engine.
//
// A Stroke is an ordered, immutable sequence of sample points with a derived
// bounding rectangle. Strokes are produced either by the capture surface
// (user ink) or by the glyph synthesizer (assistant ink); the two are told
// apart by their color identity, not by structure.
package ink

import (
	"image/color"
	"time"

	"github.com/google/uuid"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/paperjot/inkwell/pkg/geom"
)

// =============================================================================
// Ink Identity
// =============================================================================

// Ink colors distinguishing authorship. The assistant palette is fixed so
// the presentation surface can style synthesized strokes consistently.
var (
	// UserInk is the default color for strokes captured from the user.
	UserInk = mustHex("#1c1c1e")

	// AssistantInk marks strokes produced by the glyph synthesizer.
	AssistantInk = mustHex("#2566d8")

	// RecentHighlight tints recent strokes in debug snapshots.
	RecentHighlight = mustHex("#d8452f")
)

func mustHex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("ink: bad palette constant " + s)
	}
	return c
}

// =============================================================================
// Sample Points and Strokes
// =============================================================================

// SamplePoint is one sample along a stroke, mirroring what pen hardware
// reports: position, timing, and pen pose.
type SamplePoint struct {
	Pos        geom.Point    `json:"pos"`
	TimeOffset time.Duration `json:"time_offset"` // offset from the stroke's first sample
	Size       float64       `json:"size"`        // visual diameter at this sample
	Opacity    float64       `json:"opacity"`
	Force      float64       `json:"force"`    // pressure-like, 0..1
	Azimuth    float64       `json:"azimuth"`  // pen orientation, radians
	Altitude   float64       `json:"altitude"` // pen tilt, radians
}

// Stroke is one continuous ink mark. The point sequence is treated as
// immutable after construction; Bounds is derived once and cached.
type Stroke struct {
	ID        string        `json:"id"`
	Points    []SamplePoint `json:"points"`
	Color     color.Color   `json:"-"`
	Width     float64       `json:"width"`
	CreatedAt time.Time     `json:"created_at"`

	bounds    geom.Rect
	hasBounds bool
}

// New builds a stroke with a fresh ID and a derived bounding rectangle.
func New(points []SamplePoint, c color.Color, width float64) Stroke {
	s := Stroke{
		ID:        uuid.NewString(),
		Points:    points,
		Color:     c,
		Width:     width,
		CreatedAt: time.Now(),
	}
	s.bounds = computeBounds(points)
	s.hasBounds = true
	return s
}

// Bounds returns the tight axis-aligned bounding rectangle of the stroke's
// sample positions. A stroke with no points has degenerate bounds.
func (s *Stroke) Bounds() geom.Rect {
	if !s.hasBounds {
		s.bounds = computeBounds(s.Points)
		s.hasBounds = true
	}
	return s.bounds
}

func computeBounds(points []SamplePoint) geom.Rect {
	if len(points) == 0 {
		return geom.Rect{}
	}
	minX, minY := points[0].Pos.X, points[0].Pos.Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.Pos.X < minX {
			minX = p.Pos.X
		}
		if p.Pos.X > maxX {
			maxX = p.Pos.X
		}
		if p.Pos.Y < minY {
			minY = p.Pos.Y
		}
		if p.Pos.Y > maxY {
			maxY = p.Pos.Y
		}
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// =============================================================================
// Stroke Groups
// =============================================================================

// StrokeGroup is the ordered set of strokes forming one synthesized
// character. An empty group stands in for a space and exists only for
// playback timing.
type StrokeGroup struct {
	Strokes []Stroke `json:"strokes"`
}

// IsSpace reports whether the group carries no visible ink.
func (g StrokeGroup) IsSpace() bool { return len(g.Strokes) == 0 }

// Bounds returns the union of the member strokes' bounds.
func (g StrokeGroup) Bounds() geom.Rect {
	var out geom.Rect
	for i := range g.Strokes {
		out = out.Union(g.Strokes[i].Bounds())
	}
	return out
}

// BoundsOf returns one bounding rectangle per stroke, in stroke order.
func BoundsOf(strokes []Stroke) []geom.Rect {
	out := make([]geom.Rect, len(strokes))
	for i := range strokes {
		out[i] = strokes[i].Bounds()
	}
	return out
}
