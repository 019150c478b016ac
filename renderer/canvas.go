package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/pthm-cable/shardfield/layout"
)

// CanvasSurface rasterizes into an offscreen RGBA image with the software canvas backend.
// Used by the headless host and for snapshots.
type CanvasSurface struct {
	name       string
	bounds     layout.Rect
	background color.RGBA

	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	fills   int
	styles  map[color.RGBA]string
}

// NewCanvasSurface creates an offscreen surface sized to bounds.
func NewCanvasSurface(name string, bounds layout.Rect, background color.RGBA) *CanvasSurface {
	s := &CanvasSurface{name: name, background: background, styles: make(map[color.RGBA]string)}
	s.SetBounds(bounds)
	return s
}

func (s *CanvasSurface) Name() string        { return s.name }
func (s *CanvasSurface) Bounds() layout.Rect { return s.bounds }

// SetBounds resizes the backing image when the pixel size changes.
func (s *CanvasSurface) SetBounds(r layout.Rect) {
	ow, oh := s.bounds.Size()
	s.bounds = r
	w, h := r.Size()
	if s.backend != nil && w == ow && h == oh {
		return
	}
	s.backend = softwarebackend.New(max(w, 1), max(h, 1))
	s.cv = canvas.New(s.backend)
}

// Clear fills the whole surface with the background color.
func (s *CanvasSurface) Clear() {
	w, h := s.bounds.Size()
	s.cv.SetGlobalAlpha(1)
	s.cv.SetFillStyle(s.style(s.background))
	s.cv.FillRect(0, 0, float64(w), float64(h))
	s.fills = 0
}

// Fill draws one polygon.
func (s *CanvasSurface) Fill(cmd DrawCommand) {
	if cmd.N < 3 {
		return
	}
	s.cv.SetGlobalAlpha(cmd.Opacity)
	s.cv.SetFillStyle(s.style(cmd.Color))
	s.cv.BeginPath()
	s.cv.MoveTo(cmd.Points[0].X, cmd.Points[0].Y)
	for i := 1; i < cmd.N; i++ {
		s.cv.LineTo(cmd.Points[i].X, cmd.Points[i].Y)
	}
	s.cv.ClosePath()
	s.cv.Fill()
	s.fills++
}

// style returns the hex fill style for a color.
func (s *CanvasSurface) style(c color.RGBA) string {
	if st, ok := s.styles[c]; ok {
		return st
	}
	st := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	s.styles[c] = st
	return st
}

// Fills returns the number of polygons drawn since the last Clear.
func (s *CanvasSurface) Fills() int {
	return s.fills
}

// Image returns the backing image. It is overwritten by the next frame.
func (s *CanvasSurface) Image() *image.RGBA {
	return s.backend.Image
}

// SavePNG writes the current frame to a PNG file.
func (s *CanvasSurface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, s.backend.Image); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
