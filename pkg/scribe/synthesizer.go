// Package scribe converts text into vector ink strokes that look like they
// were written onto the canvas, grouped one StrokeGroup per character for
// incremental playback.
//
// # Pipeline
//
// Text is word-wrapped against a maximum line width, then each character's
// outline is pulled from the font backend as typed path segments,
// tessellated into polylines, flipped into the ink coordinate system
// (Y-down), and offset to the pen position. Spaces and characters without a
// renderable outline produce empty groups that exist only for playback
// timing; their advance width is still applied.
//
// Synthesis is deterministic: the same text at the same origin and width
// yields identical stroke point sequences.
package scribe

import (
	"strings"
	"time"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/scribe/font"
)

// Synthesizer renders text as stroke groups.
type Synthesizer struct {
	cfg  config.Script
	face font.Face

	// glyph outline tessellations are deterministic per rune; cache them.
	glyphs map[rune]glyphEntry
}

type glyphEntry struct {
	polylines [][]geom.Point
	advance   float64
	found     bool
}

// New creates a synthesizer over the given face.
func New(cfg config.Script, face font.Face) *Synthesizer {
	return &Synthesizer{
		cfg:    cfg,
		face:   face,
		glyphs: make(map[rune]glyphEntry),
	}
}

// Synthesize converts text into an ordered sequence of stroke groups laid
// out from origin, wrapped to maxWidth. One group per character; spaces and
// unrenderable characters yield empty groups.
func (s *Synthesizer) Synthesize(text string, origin geom.Point, maxWidth float64) []ink.StrokeGroup {
	var groups []ink.StrokeGroup

	for lineIdx, line := range s.wrap(text, maxWidth) {
		// The pen sits on the baseline; glyph bodies rise above it, so the
		// first baseline is one glyph height below the origin.
		baseline := origin.Y + s.cfg.GlyphHeight + float64(lineIdx)*s.cfg.LineHeight
		cursor := origin.X

		for _, r := range line {
			if r == ' ' {
				groups = append(groups, ink.StrokeGroup{})
				cursor += s.cfg.SpaceWidth
				continue
			}

			entry := s.glyph(r)
			if !entry.found {
				// No renderable outline: a timing placeholder, but the
				// cursor still advances by the measured width.
				groups = append(groups, ink.StrokeGroup{})
				cursor += entry.advance + s.cfg.CharSpacing
				continue
			}

			pen := geom.Point{X: cursor, Y: baseline}
			group := ink.StrokeGroup{}
			for _, polyline := range entry.polylines {
				group.Strokes = append(group.Strokes, s.strokeFrom(polyline, pen))
			}
			groups = append(groups, group)
			cursor += entry.advance + s.cfg.CharSpacing
		}
	}

	return groups
}

// MeasureWidth estimates the laid-out width of a single line of text.
func (s *Synthesizer) MeasureWidth(text string) float64 {
	var w float64
	for _, r := range text {
		if r == ' ' {
			w += s.cfg.SpaceWidth
			continue
		}
		w += s.glyph(r).advance + s.cfg.CharSpacing
	}
	return w
}

// glyph returns the cached tessellation for r.
func (s *Synthesizer) glyph(r rune) glyphEntry {
	if entry, ok := s.glyphs[r]; ok {
		return entry
	}
	g, found := s.face.Glyph(r)
	entry := glyphEntry{advance: g.Advance, found: found}
	if found {
		entry.polylines = tessellate(g.Segments)
		if len(entry.polylines) == 0 {
			entry.found = false
		}
	}
	s.glyphs[r] = entry
	return entry
}

// strokeFrom turns one polyline into an assistant-ink stroke at the pen
// position, with monotonically increasing per-point time offsets.
func (s *Synthesizer) strokeFrom(polyline []geom.Point, pen geom.Point) ink.Stroke {
	points := make([]ink.SamplePoint, len(polyline))
	for i, p := range polyline {
		points[i] = ink.SamplePoint{
			Pos:        pen.Add(p),
			TimeOffset: time.Duration(i) * s.cfg.PointInterval,
			Size:       s.cfg.StrokeWidth,
			Opacity:    1,
			Force:      0.5,
		}
	}
	return ink.New(points, ink.AssistantInk, s.cfg.StrokeWidth)
}

// wrap splits text on single spaces and greedily packs words into lines no
// wider than maxWidth. A word that would overflow forces a break, unless the
// line is empty - a single overlong word is never split.
func (s *Synthesizer) wrap(text string, maxWidth float64) []string {
	words := strings.Split(text, " ")

	var lines []string
	var line strings.Builder
	var lineWidth float64

	for _, word := range words {
		wordWidth := s.MeasureWidth(word)

		if line.Len() == 0 {
			line.WriteString(word)
			lineWidth = wordWidth
			continue
		}

		if lineWidth+s.cfg.SpaceWidth+wordWidth > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineWidth = wordWidth
			continue
		}

		line.WriteString(" ")
		line.WriteString(word)
		lineWidth += s.cfg.SpaceWidth + wordWidth
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
