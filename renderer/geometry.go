package renderer

import (
	"math"

	"github.com/pthm-cable/shardfield/field"
)

// Command builds the draw command for a render record.
// Shapes are defined around the particle center, then rotated, scaled by
// the perspective factor and moved to the record's screen position.
func Command(rec *field.RenderRecord, palette *field.Palette) DrawCommand {
	s := rec.Size
	cmd := DrawCommand{
		Color:   palette.Color(rec.ColorID, rec.Shade),
		Opacity: rec.Opacity,
	}

	switch rec.Shape {
	case field.ShapeTriangle:
		cmd.N = 3
		cmd.Points[0] = Point{0, -s}
		cmd.Points[1] = Point{s, s}
		cmd.Points[2] = Point{-s, s}
	default:
		h := s / 2
		cmd.N = 4
		cmd.Points[0] = Point{-h, -h}
		cmd.Points[1] = Point{h, -h}
		cmd.Points[2] = Point{h, h}
		cmd.Points[3] = Point{-h, h}
	}

	sin, cos := math.Sincos(rec.Rotation)
	for i := 0; i < cmd.N; i++ {
		p := cmd.Points[i]
		x := (p.X*cos - p.Y*sin) * rec.Scale
		y := (p.X*sin + p.Y*cos) * rec.Scale
		cmd.Points[i] = Point{X: x + rec.X, Y: y + rec.Y}
	}
	return cmd
}

// Area returns the polygon's unsigned area.
func Area(pts []Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(a) / 2
}

// BoundingBox returns the polygon's axis-aligned bounds.
func BoundingBox(pts []Point) (minP, maxP Point) {
	minP = Point{math.Inf(1), math.Inf(1)}
	maxP = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		minP.X = min(minP.X, p.X)
		minP.Y = min(minP.Y, p.Y)
		maxP.X = max(maxP.X, p.X)
		maxP.Y = max(maxP.Y, p.Y)
	}
	return minP, maxP
}

// Contains reports whether a point is inside a convex or concave polygon (even-odd rule).
func Contains(pts []Point, x, y float64) bool {
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
