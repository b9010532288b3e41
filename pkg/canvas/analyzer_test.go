package canvas

import (
	"testing"

	"github.com/paperjot/inkwell/pkg/config"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
)

func strokeAt(r geom.Rect) ink.Stroke {
	return ink.New([]ink.SamplePoint{
		{Pos: geom.Point{X: r.X, Y: r.Y}},
		{Pos: geom.Point{X: r.MaxX(), Y: r.MaxY()}},
	}, ink.UserInk, 2)
}

func newAnalyzer() *Analyzer {
	return New(config.Default().Layout)
}

func TestAnalyzeSingleStroke(t *testing.T) {
	a := newAnalyzer()
	strokes := []ink.Stroke{strokeAt(geom.Rect{X: 100, Y: 100, Width: 50, Height: 50})}

	meta := a.Analyze(strokes, 1)

	if len(meta.OccupiedRegions) != 1 {
		t.Fatalf("got %d occupied regions, want 1", len(meta.OccupiedRegions))
	}
	want := geom.Rect{X: 100, Y: 100, Width: 50, Height: 50}
	if meta.OccupiedRegions[0] != want {
		t.Errorf("occupied[0] = %+v, want %+v", meta.OccupiedRegions[0], want)
	}
	if meta.RecentWritingRegion == nil {
		t.Fatal("recent writing region should be present")
	}
	if *meta.RecentWritingRegion != want {
		t.Errorf("recent region = %+v, want %+v", *meta.RecentWritingRegion, want)
	}
}

func TestAnalyzeEmptyCanvas(t *testing.T) {
	a := newAnalyzer()
	meta := a.Analyze(nil, 1)

	if len(meta.OccupiedRegions) != 0 {
		t.Errorf("got %d occupied regions, want 0", len(meta.OccupiedRegions))
	}
	if meta.RecentWritingRegion != nil {
		t.Error("recent region should be nil with no strokes")
	}
	// Default 1000x1000 square padded by 100 on each side, origin clamped
	// back to (0,0): the far edge lands at 1100.
	if meta.CanvasSize.X != 0 || meta.CanvasSize.Y != 0 ||
		meta.CanvasSize.Width != 1100 || meta.CanvasSize.Height != 1100 {
		t.Errorf("canvas size = %+v, want (0,0,1100,1100) working area", meta.CanvasSize)
	}
	if len(meta.EmptyRegions) == 0 {
		t.Error("an empty canvas should report at least one empty region")
	}
}

func TestOccupiedCountMatchesStrokes(t *testing.T) {
	a := newAnalyzer()
	var strokes []ink.Stroke
	rects := []geom.Rect{
		{X: 0, Y: 0, Width: 40, Height: 40},
		{X: 300, Y: 20, Width: 80, Height: 30},
		{X: 100, Y: 500, Width: 200, Height: 60},
	}
	for _, r := range rects {
		strokes = append(strokes, strokeAt(r))
	}

	meta := a.Analyze(strokes, 2)

	if len(meta.OccupiedRegions) != len(strokes) {
		t.Fatalf("occupied count = %d, want %d", len(meta.OccupiedRegions), len(strokes))
	}
	for i := range strokes {
		if meta.OccupiedRegions[i] != rects[i] {
			t.Errorf("occupied[%d] = %+v, want %+v", i, meta.OccupiedRegions[i], rects[i])
		}
	}
}

func TestRecentRegionCoversOnlyTrailingStrokes(t *testing.T) {
	a := newAnalyzer()
	strokes := []ink.Stroke{
		strokeAt(geom.Rect{X: 0, Y: 0, Width: 50, Height: 50}),
		strokeAt(geom.Rect{X: 400, Y: 400, Width: 50, Height: 50}),
		strokeAt(geom.Rect{X: 480, Y: 420, Width: 40, Height: 30}),
	}

	meta := a.Analyze(strokes, 2)

	want := geom.Rect{X: 400, Y: 400, Width: 120, Height: 50}
	if meta.RecentWritingRegion == nil || *meta.RecentWritingRegion != want {
		t.Errorf("recent region = %+v, want tight union of last 2 strokes %+v",
			meta.RecentWritingRegion, want)
	}
}

func TestRecentCountLargerThanStrokeList(t *testing.T) {
	a := newAnalyzer()
	strokes := []ink.Stroke{strokeAt(geom.Rect{X: 10, Y: 10, Width: 20, Height: 20})}

	meta := a.Analyze(strokes, 50)

	if meta.RecentWritingRegion == nil {
		t.Fatal("recent region should exist")
	}
	if *meta.RecentWritingRegion != strokes[0].Bounds() {
		t.Errorf("recent region = %+v, want the single stroke's bounds", *meta.RecentWritingRegion)
	}
}

func TestEmptyRegionsDisjointFromOccupied(t *testing.T) {
	cfg := config.Default().Layout
	a := New(cfg)
	strokes := []ink.Stroke{
		strokeAt(geom.Rect{X: 150, Y: 150, Width: 100, Height: 100}),
		strokeAt(geom.Rect{X: 600, Y: 300, Width: 150, Height: 80}),
	}

	meta := a.Analyze(strokes, 1)

	if len(meta.EmptyRegions) == 0 {
		t.Fatal("expected empty regions on a sparse canvas")
	}
	for i, e := range meta.EmptyRegions {
		for j, o := range meta.OccupiedRegions {
			if e.Intersects(o.Expand(cfg.ProximityMargin)) {
				t.Errorf("empty region %d %+v intersects occupied %d expanded by margin", i, e, j)
			}
		}
	}
}

func TestEmptyRegionsPairwiseDisjoint(t *testing.T) {
	a := newAnalyzer()
	strokes := []ink.Stroke{
		strokeAt(geom.Rect{X: 200, Y: 200, Width: 300, Height: 40}),
		strokeAt(geom.Rect{X: 100, Y: 600, Width: 60, Height: 250}),
	}

	meta := a.Analyze(strokes, 1)

	for i := range meta.EmptyRegions {
		for j := i + 1; j < len(meta.EmptyRegions); j++ {
			if meta.EmptyRegions[i].Intersects(meta.EmptyRegions[j]) {
				t.Errorf("empty regions %d and %d overlap: %+v vs %+v",
					i, j, meta.EmptyRegions[i], meta.EmptyRegions[j])
			}
		}
	}
}

func TestEmptyRegionsAtLeastOneCell(t *testing.T) {
	a := newAnalyzer()
	meta := a.Analyze([]ink.Stroke{strokeAt(geom.Rect{X: 50, Y: 50, Width: 700, Height: 700})}, 1)

	for _, e := range meta.EmptyRegions {
		if e.Width < meta.GridCellSize || e.Height < meta.GridCellSize {
			t.Errorf("empty region %+v smaller than one grid cell", e)
		}
	}
}

func TestWorkingAreaClampsOrigin(t *testing.T) {
	a := newAnalyzer()
	// A stroke near the origin would push the padded area negative.
	strokes := []ink.Stroke{strokeAt(geom.Rect{X: 10, Y: 10, Width: 50, Height: 50})}

	meta := a.Analyze(strokes, 1)

	if meta.CanvasSize.X < 0 || meta.CanvasSize.Y < 0 {
		t.Errorf("working area origin should be clamped non-negative, got %+v", meta.CanvasSize)
	}
	// Far edge keeps the padding.
	if meta.CanvasSize.MaxX() != 160 || meta.CanvasSize.MaxY() != 160 {
		t.Errorf("working area far edge = (%v,%v), want (160,160)",
			meta.CanvasSize.MaxX(), meta.CanvasSize.MaxY())
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := newAnalyzer()
	strokes := []ink.Stroke{
		strokeAt(geom.Rect{X: 120, Y: 80, Width: 90, Height: 45}),
		strokeAt(geom.Rect{X: 420, Y: 400, Width: 130, Height: 30}),
	}

	m1 := a.Analyze(strokes, 1)
	m2 := a.Analyze(strokes, 1)

	if len(m1.EmptyRegions) != len(m2.EmptyRegions) {
		t.Fatal("repeated analysis should yield identical empty regions")
	}
	for i := range m1.EmptyRegions {
		if m1.EmptyRegions[i] != m2.EmptyRegions[i] {
			t.Errorf("empty region %d differs between runs", i)
		}
	}
}
