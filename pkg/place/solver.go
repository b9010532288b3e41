// Package place selects a collision-minimizing rectangle for new content,
// anchored near the most recent writing.
//
// The solver is deterministic and total: given identical metadata and content
// size it returns the same placement, and it always returns something - in
// the worst case a placement below the recent writing flagged as Degraded,
// on the assumption that the canvas grows to absorb it.
package place

import (
	"fmt"

	"github.com/paperjot/inkwell/pkg/canvas"
	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
)

// Position names one of the four candidate slots around an anchor, in the
// order they are tried.
type Position int

const (
	Below Position = iota
	Right
	Above
	Left
)

// String returns the lowercase slot name.
func (p Position) String() string {
	switch p {
	case Below:
		return "below"
	case Right:
		return "right"
	case Above:
		return "above"
	case Left:
		return "left"
	}
	return "unknown"
}

// positions is the fixed candidate priority for every anchor.
var positions = [4]Position{Below, Right, Above, Left}

// Placement is the chosen rectangle for new content.
type Placement struct {
	Rect geom.Rect `json:"rect"`

	// Reasoning is a free-text trace of how the rect was chosen.
	Reasoning string `json:"reasoning"`

	// EmptyRegionIndex is the index of the metadata empty region the rect
	// falls inside, or -1 when it matches none.
	EmptyRegionIndex int `json:"empty_region_index"`

	// Degraded marks the forced fallback: the rect overlaps occupied
	// content beyond the collision tolerance.
	Degraded bool `json:"degraded"`
}

// Solver picks placements from canvas metadata.
type Solver struct {
	cfg config.Layout
}

// New creates a solver with the given layout tunables.
func New(cfg config.Layout) *Solver {
	return &Solver{cfg: cfg}
}

// Solve returns a placement for a content box of the given size.
//
// Candidate anchors are tried in order: the recent writing region first,
// then (if one qualifies) the most recent prior response-shaped region. For
// each anchor the four slots below/right/above/left are tried in that fixed
// order and the first candidate colliding with nothing is returned - first
// fit, not best fit. When everything collides, the below-recent slot is
// returned with Degraded set.
func (s *Solver) Solve(meta canvas.Metadata, size geom.Point) Placement {
	if meta.RecentWritingRegion == nil {
		// Nothing to anchor to: fixed placement near the canvas origin.
		rect := geom.Rect{
			X:      meta.CanvasSize.X + s.cfg.AnchorPadding,
			Y:      meta.CanvasSize.Y + s.cfg.AnchorPadding,
			Width:  size.X,
			Height: size.Y,
		}
		return Placement{
			Rect:             rect,
			Reasoning:        "no recent writing; default placement near canvas origin",
			EmptyRegionIndex: s.emptyRegionIndex(meta, rect),
		}
	}

	recent := *meta.RecentWritingRegion
	anchors := []struct {
		rect geom.Rect
		name string
	}{
		{recent, "recent writing"},
	}
	if prior, ok := s.priorResponseRegion(meta, recent); ok {
		anchors = append(anchors, struct {
			rect geom.Rect
			name string
		}{prior, "prior response"})
	}

	for _, anchor := range anchors {
		for _, pos := range positions {
			candidate := s.candidateRect(anchor.rect, pos, size)
			if s.collides(meta, candidate) {
				continue
			}
			return Placement{
				Rect: candidate,
				Reasoning: fmt.Sprintf("%s of %s region, no collisions",
					pos, anchor.name),
				EmptyRegionIndex: s.emptyRegionIndex(meta, candidate),
			}
		}
	}

	// Forced fallback: below the recent writing, collisions and all.
	rect := s.candidateRect(recent, Below, size)
	return Placement{
		Rect:             rect,
		Reasoning:        "all candidates collide; forced below recent writing",
		EmptyRegionIndex: s.emptyRegionIndex(meta, rect),
		Degraded:         true,
	}
}

// candidateRect positions a content box on the given side of the anchor,
// separated by the anchor padding. Below and right candidates share the
// anchor's origin on the unmoved axis.
func (s *Solver) candidateRect(anchor geom.Rect, pos Position, size geom.Point) geom.Rect {
	pad := s.cfg.AnchorPadding
	switch pos {
	case Below:
		return geom.Rect{X: anchor.X, Y: anchor.MaxY() + pad, Width: size.X, Height: size.Y}
	case Right:
		return geom.Rect{X: anchor.MaxX() + pad, Y: anchor.Y, Width: size.X, Height: size.Y}
	case Above:
		return geom.Rect{X: anchor.X, Y: anchor.Y - pad - size.Y, Width: size.X, Height: size.Y}
	default: // Left
		return geom.Rect{X: anchor.X - pad - size.X, Y: anchor.Y, Width: size.X, Height: size.Y}
	}
}

// collides reports whether any occupied rectangle, expanded by the breathing
// margin, covers more than the tolerated share of the candidate's area.
func (s *Solver) collides(meta canvas.Metadata, candidate geom.Rect) bool {
	for _, occ := range meta.OccupiedRegions {
		expanded := occ.Expand(s.cfg.BreathingMargin)
		if expanded.OverlapRatio(candidate) > s.cfg.MaxOverlapRatio {
			return true
		}
	}
	return false
}

// priorResponseRegion scans occupied regions newest-first for a rectangle
// shaped like an earlier synthesized response: wide, and clear of the recent
// writing. Strokes carry no provenance, so this is a geometric guess.
func (s *Solver) priorResponseRegion(meta canvas.Metadata, recent geom.Rect) (geom.Rect, bool) {
	for i := len(meta.OccupiedRegions) - 1; i >= 0; i-- {
		r := meta.OccupiedRegions[i]
		if r.Width <= s.cfg.PriorResponseMinWidth {
			continue
		}
		overlap := r.Intersect(recent)
		if overlap.IsEmpty() || overlap.Width < s.cfg.PriorResponseOverlapFrac*r.Width {
			return r, true
		}
	}
	return geom.Rect{}, false
}

// emptyRegionIndex finds which metadata empty region fully contains the
// rect's center, or -1.
func (s *Solver) emptyRegionIndex(meta canvas.Metadata, rect geom.Rect) int {
	c := rect.Center()
	for i, e := range meta.EmptyRegions {
		if e.Contains(c) {
			return i
		}
	}
	return -1
}
