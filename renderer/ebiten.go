package renderer

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pthm-cable/shardfield/layout"
)

// maxBatchVertices keeps batch indices within uint16.
const maxBatchVertices = 65532

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// solidImage returns a 1x1 white source image for untextured triangles.
func solidImage() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// EbitenSurface batches polygons into one DrawTriangles call per frame.
type EbitenSurface struct {
	name       string
	bounds     layout.Rect
	background color.RGBA

	target   *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbitenSurface creates a surface for a region of the ebiten screen.
func NewEbitenSurface(name string, bounds layout.Rect, background color.RGBA) *EbitenSurface {
	return &EbitenSurface{
		name:       name,
		bounds:     bounds,
		background: background,
		vertices:   make([]ebiten.Vertex, 0, 4096),
		indices:    make([]uint16, 0, 6144),
	}
}

func (s *EbitenSurface) Name() string            { return s.name }
func (s *EbitenSurface) Bounds() layout.Rect     { return s.bounds }
func (s *EbitenSurface) SetBounds(r layout.Rect) { s.bounds = r }

// SetTarget sets the screen drawn to by the next frame, clipped to the surface region.
func (s *EbitenSurface) SetTarget(screen *ebiten.Image) {
	w, h := s.bounds.Size()
	x, y := int(s.bounds.X), int(s.bounds.Y)
	s.target = screen.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image)
}

// BeginFrame resets the batch.
func (s *EbitenSurface) BeginFrame() {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// EndFrame submits the batch.
func (s *EbitenSurface) EndFrame() {
	s.flush()
}

// Clear queues a background quad covering the region.
func (s *EbitenSurface) Clear() {
	w, h := s.bounds.Size()
	s.appendPolygon([]Point{
		{0, 0}, {float64(w), 0}, {float64(w), float64(h)}, {0, float64(h)},
	}, s.background, 1)
}

// Fill queues one polygon.
func (s *EbitenSurface) Fill(cmd DrawCommand) {
	if cmd.N < 3 {
		return
	}
	s.appendPolygon(cmd.Vertices(), cmd.Color, cmd.Opacity)
}

func (s *EbitenSurface) appendPolygon(pts []Point, c color.RGBA, alpha float64) {
	if len(s.vertices)+len(pts) > maxBatchVertices {
		s.flush()
	}

	a := float32(alpha)
	r := float32(c.R) / 255 * a
	g := float32(c.G) / 255 * a
	b := float32(c.B) / 255 * a

	base := uint16(len(s.vertices))
	for _, p := range pts {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(p.X + s.bounds.X),
			DstY:   float32(p.Y + s.bounds.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	for i := 1; i+1 < len(pts); i++ {
		s.indices = append(s.indices, base, base+uint16(i), base+uint16(i+1))
	}
}

func (s *EbitenSurface) flush() {
	if s.target != nil && len(s.indices) > 0 {
		op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha}
		s.target.DrawTriangles(s.vertices, s.indices, solidImage(), op)
	}
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}
