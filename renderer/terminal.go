package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/shardfield/layout"
)

// CellScreen is the part of tcell.Screen a terminal surface writes to.
type CellScreen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// TerminalSurface renders into a block of terminal cells. Pixel bounds are
// mapped onto cells of CellW x CellH pixels and polygons are blended into a
// per-cell color buffer that is written out at the end of the frame.
type TerminalSurface struct {
	name       string
	bounds     layout.Rect
	background colorful.Color

	screen       CellScreen
	cellW, cellH float64

	col0, row0 int
	cols, rows int
	cells      []colorful.Color
}

// NewTerminalSurface creates a surface for a region of the terminal.
func NewTerminalSurface(name string, bounds layout.Rect, background color.RGBA, screen CellScreen, cellW, cellH int) *TerminalSurface {
	bg, _ := colorful.MakeColor(background)
	s := &TerminalSurface{
		name:       name,
		background: bg,
		screen:     screen,
		cellW:      float64(max(cellW, 1)),
		cellH:      float64(max(cellH, 1)),
	}
	s.SetBounds(bounds)
	return s
}

func (s *TerminalSurface) Name() string        { return s.name }
func (s *TerminalSurface) Bounds() layout.Rect { return s.bounds }

// SetBounds recomputes the cell grid covered by the pixel bounds.
func (s *TerminalSurface) SetBounds(r layout.Rect) {
	s.bounds = r
	s.col0 = int(math.Round(r.X / s.cellW))
	s.row0 = int(math.Round(r.Y / s.cellH))
	s.cols = max(0, int(math.Round((r.X+r.W)/s.cellW))-s.col0)
	s.rows = max(0, int(math.Round((r.Y+r.H)/s.cellH))-s.row0)
	if n := s.cols * s.rows; cap(s.cells) >= n {
		s.cells = s.cells[:n]
	} else {
		s.cells = make([]colorful.Color, n)
	}
}

// Grid returns the cell grid size.
func (s *TerminalSurface) Grid() (cols, rows int) {
	return s.cols, s.rows
}

// Cell returns the buffered color of a surface-relative cell.
func (s *TerminalSurface) Cell(col, row int) colorful.Color {
	return s.cells[row*s.cols+col]
}

func (s *TerminalSurface) BeginFrame() {}

// EndFrame writes the buffered cells to the screen.
func (s *TerminalSurface) EndFrame() {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			r, g, b := s.cells[row*s.cols+col].Clamped().RGB255()
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
			s.screen.SetContent(s.col0+col, s.row0+row, ' ', nil, style)
		}
	}
}

// Clear resets every cell to the background color.
func (s *TerminalSurface) Clear() {
	for i := range s.cells {
		s.cells[i] = s.background
	}
}

// Fill blends one polygon into the cell buffer. Polygons within a single cell
// contribute in proportion to the share of the cell they cover; larger ones
// paint every cell whose center they contain.
func (s *TerminalSurface) Fill(cmd DrawCommand) {
	if cmd.N < 3 || s.cols == 0 || s.rows == 0 {
		return
	}
	pts := cmd.Vertices()
	src, _ := colorful.MakeColor(cmd.Color)

	lo, hi := BoundingBox(pts)
	c0, r0 := int(math.Floor(lo.X/s.cellW)), int(math.Floor(lo.Y/s.cellH))
	c1, r1 := int(math.Floor(hi.X/s.cellW)), int(math.Floor(hi.Y/s.cellH))

	if c0 == c1 && r0 == r1 {
		coverage := min(1, Area(pts)/(s.cellW*s.cellH))
		s.blend(c0, r0, src, cmd.Opacity*coverage)
		return
	}

	for row := max(r0, 0); row <= min(r1, s.rows-1); row++ {
		cy := (float64(row) + 0.5) * s.cellH
		for col := max(c0, 0); col <= min(c1, s.cols-1); col++ {
			cx := (float64(col) + 0.5) * s.cellW
			if Contains(pts, cx, cy) {
				s.blend(col, row, src, cmd.Opacity)
			}
		}
	}
}

func (s *TerminalSurface) blend(col, row int, src colorful.Color, alpha float64) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows || alpha <= 0 {
		return
	}
	i := row*s.cols + col
	s.cells[i] = s.cells[i].BlendRgb(src, min(1, alpha))
}
