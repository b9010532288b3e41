package scribe

import (
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/scribe/font"
)

// bezierSteps is the number of parameter steps per curved segment; every
// quadratic or cubic segment is sampled at t = 0, 1/bezierSteps, ..., 1.
const bezierSteps = 10

// quadPoint evaluates a quadratic Bezier at t using the Bernstein basis.
func quadPoint(p0, p1, p2 geom.Point, t float64) geom.Point {
	u := 1 - t
	a := u * u
	b := 2 * u * t
	c := t * t
	return geom.Point{
		X: a*p0.X + b*p1.X + c*p2.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y,
	}
}

// cubePoint evaluates a cubic Bezier at t using the Bernstein basis.
func cubePoint(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return geom.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// tessellate flattens a glyph outline into polylines, one per subpath.
// A new polyline starts at every MoveTo and is flushed at the next MoveTo,
// at Close, or at the end of the segment list. Curved segments contribute
// their 11 parameter samples; polylines with fewer than two points are
// dropped. Input coordinates are Y-up; output is Y-down (ink convention).
func tessellate(segs []font.Segment) [][]geom.Point {
	var polylines [][]geom.Point
	var current []geom.Point
	var pen geom.Point

	flush := func() {
		if len(current) >= 2 {
			polylines = append(polylines, current)
		}
		current = nil
	}

	flip := func(p geom.Point) geom.Point {
		return geom.Point{X: p.X, Y: -p.Y}
	}

	for _, seg := range segs {
		switch seg.Op {
		case font.MoveTo:
			flush()
			pen = flip(seg.Args[0])
			current = append(current, pen)

		case font.LineTo:
			pen = flip(seg.Args[0])
			current = append(current, pen)

		case font.QuadTo:
			ctrl := flip(seg.Args[0])
			end := flip(seg.Args[1])
			for i := 0; i <= bezierSteps; i++ {
				t := float64(i) / bezierSteps
				current = append(current, quadPoint(pen, ctrl, end, t))
			}
			pen = end

		case font.CubeTo:
			c1 := flip(seg.Args[0])
			c2 := flip(seg.Args[1])
			end := flip(seg.Args[2])
			for i := 0; i <= bezierSteps; i++ {
				t := float64(i) / bezierSteps
				current = append(current, cubePoint(pen, c1, c2, end, t))
			}
			pen = end

		case font.Close:
			flush()
		}
	}
	flush()

	return polylines
}
