// Package canvas turns a stroke list into a spatial description of the
// drawing surface: which regions are occupied, where the most recent writing
// sits, and which large rectangles are still empty.
//
// # Analysis
//
// The analyzer works from stroke bounding rectangles only; it never inspects
// sample points. Empty regions come from a uniform-grid flood: a cell is
// occupied when it touches any stroke bounds expanded by a proximity margin,
// and maximal empty rectangles are grown greedily rightward then downward.
// The greedy growth is O(rows x cols) and can miss a larger rectangle
// reachable through a different width choice at the same start cell; that
// trade-off is intentional.
//
// Analysis is total: degenerate inputs (no strokes, zero-size canvas) yield
// a valid, if minimal, Metadata snapshot. Every snapshot is recomputed from
// scratch - Metadata is never patched incrementally.
package canvas

import (
	"math"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
)

// Metadata is an immutable snapshot of canvas state at one point in time.
// It is also the structured half of the reasoning request payload, hence the
// JSON tags.
type Metadata struct {
	// CanvasSize is the padded working area (origin clamped non-negative).
	CanvasSize geom.Rect `json:"canvas_size"`

	// OccupiedRegions holds one bounding rectangle per stroke, in stroke order.
	OccupiedRegions []geom.Rect `json:"occupied_regions"`

	// RecentWritingRegion is the tight union of the last N strokes' bounds,
	// anchored to their true extent. Nil when no strokes exist.
	RecentWritingRegion *geom.Rect `json:"recent_writing_region,omitempty"`

	// EmptyRegions are disjoint grid-derived rectangles free of occupied
	// content (with margin).
	EmptyRegions []geom.Rect `json:"empty_regions"`

	// GridCellSize is the cell edge used for the flood analysis.
	GridCellSize float64 `json:"grid_cell_size"`
}

// Analyzer computes Metadata snapshots from stroke lists.
type Analyzer struct {
	cfg config.Layout
}

// New creates an analyzer with the given layout tunables.
func New(cfg config.Layout) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze builds a fresh Metadata snapshot. recentCount values below 1 are
// treated as 1; a recentCount larger than the stroke list covers the whole
// list. Analyze never fails.
func (a *Analyzer) Analyze(strokes []ink.Stroke, recentCount int) Metadata {
	if recentCount < 1 {
		recentCount = 1
	}

	occupied := ink.BoundsOf(strokes)

	meta := Metadata{
		OccupiedRegions: occupied,
		GridCellSize:    a.cfg.GridCellSize,
	}

	meta.CanvasSize = a.workingArea(occupied)

	if len(strokes) > 0 {
		if recentCount > len(strokes) {
			recentCount = len(strokes)
		}
		recent := geom.BoundsOf(occupied[len(occupied)-recentCount:])
		meta.RecentWritingRegion = &recent
	}

	meta.EmptyRegions = a.emptyRegions(meta.CanvasSize, occupied)

	return meta
}

// workingArea pads the stroke union and clamps the origin to the first
// quadrant. With no strokes the default square is used.
func (a *Analyzer) workingArea(occupied []geom.Rect) geom.Rect {
	union := geom.BoundsOf(occupied)
	if union.IsEmpty() {
		union = geom.Rect{Width: a.cfg.DefaultCanvasSize, Height: a.cfg.DefaultCanvasSize}
	}

	padded := union.Expand(a.cfg.CanvasPadding)

	// Clamp the origin, keeping the far edge where padding put it.
	x := math.Max(padded.X, 0)
	y := math.Max(padded.Y, 0)
	return geom.Rect{X: x, Y: y, Width: padded.MaxX() - x, Height: padded.MaxY() - y}
}

// emptyRegions runs the grid flood analysis over the working area.
func (a *Analyzer) emptyRegions(area geom.Rect, occupied []geom.Rect) []geom.Rect {
	cell := a.cfg.GridCellSize
	if cell <= 0 || area.IsEmpty() {
		return nil
	}

	cols := int(math.Ceil(area.Width / cell))
	rows := int(math.Ceil(area.Height / cell))
	if cols <= 0 || rows <= 0 {
		return nil
	}

	// Expand occupied rects once; cells are classified against the margins.
	expanded := make([]geom.Rect, len(occupied))
	for i, r := range occupied {
		expanded[i] = r.Expand(a.cfg.ProximityMargin)
	}

	blocked := make([]bool, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cellRect := a.cellRect(area, row, col)
			for _, r := range expanded {
				if cellRect.Intersects(r) {
					blocked[row*cols+col] = true
					break
				}
			}
		}
	}

	visited := make([]bool, rows*cols)
	var regions []geom.Rect

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if blocked[idx] || visited[idx] {
				continue
			}

			// Grow rightward while cells stay empty; this fixes the width.
			spanCols := 1
			for col+spanCols < cols {
				next := row*cols + col + spanCols
				if blocked[next] || visited[next] {
					break
				}
				spanCols++
			}

			// Grow downward while the entire width stays empty per row.
			spanRows := 1
			for row+spanRows < rows {
				ok := true
				base := (row + spanRows) * cols
				for c := col; c < col+spanCols; c++ {
					if blocked[base+c] || visited[base+c] {
						ok = false
						break
					}
				}
				if !ok {
					break
				}
				spanRows++
			}

			for r := row; r < row+spanRows; r++ {
				for c := col; c < col+spanCols; c++ {
					visited[r*cols+c] = true
				}
			}

			region := geom.Rect{
				X:      area.X + float64(col)*cell,
				Y:      area.Y + float64(row)*cell,
				Width:  float64(spanCols) * cell,
				Height: float64(spanRows) * cell,
			}
			region = region.Intersect(area)

			// A region clipped below one full cell in either dimension is
			// too small to place anything in.
			if region.Width < cell || region.Height < cell {
				continue
			}
			regions = append(regions, region)
		}
	}

	return regions
}

// cellRect returns the canvas-space rectangle of one grid cell, clipped to
// the working area at the right and bottom edges.
func (a *Analyzer) cellRect(area geom.Rect, row, col int) geom.Rect {
	cell := a.cfg.GridCellSize
	r := geom.Rect{
		X:      area.X + float64(col)*cell,
		Y:      area.Y + float64(row)*cell,
		Width:  cell,
		Height: cell,
	}
	return r.Intersect(area)
}
