package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shardfield/layout"
)

// RaylibSurface draws into a region of the raylib window.
// Must be used between rl.BeginDrawing and rl.EndDrawing.
type RaylibSurface struct {
	name       string
	bounds     layout.Rect
	background rl.Color
}

// NewRaylibSurface creates a surface for a window region.
func NewRaylibSurface(name string, bounds layout.Rect, background color.RGBA) *RaylibSurface {
	bg := rl.Color{R: background.R, G: background.G, B: background.B, A: background.A}
	return &RaylibSurface{name: name, bounds: bounds, background: bg}
}

func (s *RaylibSurface) Name() string            { return s.name }
func (s *RaylibSurface) Bounds() layout.Rect     { return s.bounds }
func (s *RaylibSurface) SetBounds(r layout.Rect) { s.bounds = r }

// BeginFrame clips drawing to the surface region.
func (s *RaylibSurface) BeginFrame() {
	w, h := s.bounds.Size()
	rl.BeginScissorMode(int32(s.bounds.X), int32(s.bounds.Y), int32(w), int32(h))
}

// EndFrame removes the clip.
func (s *RaylibSurface) EndFrame() {
	rl.EndScissorMode()
}

// Clear paints the region with the background color.
func (s *RaylibSurface) Clear() {
	w, h := s.bounds.Size()
	rl.DrawRectangle(int32(s.bounds.X), int32(s.bounds.Y), int32(w), int32(h), s.background)
}

// Fill draws one polygon as a triangle fan.
func (s *RaylibSurface) Fill(cmd DrawCommand) {
	if cmd.N < 3 {
		return
	}
	c := rl.Color{R: cmd.Color.R, G: cmd.Color.G, B: cmd.Color.B, A: uint8(cmd.Opacity*255 + 0.5)}

	v0 := s.vec(cmd.Points[0])
	for i := 1; i+1 < cmd.N; i++ {
		drawTriangle(v0, s.vec(cmd.Points[i]), s.vec(cmd.Points[i+1]), c)
	}
}

func (s *RaylibSurface) vec(p Point) rl.Vector2 {
	return rl.Vector2{X: float32(p.X + s.bounds.X), Y: float32(p.Y + s.bounds.Y)}
}

// drawTriangle draws a triangle in either winding; raylib culls clockwise input.
func drawTriangle(a, b, c rl.Vector2, col rl.Color) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(a, b, c, col)
}
