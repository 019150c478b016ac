package renderer

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/shardfield/layout"
)

var (
	testBackground = color.RGBA{R: 248, G: 250, B: 252, A: 255}
	testInk        = color.RGBA{R: 15, G: 23, B: 42, A: 255}
)

func squareCmd(x, y, size float64, c color.RGBA, opacity float64) DrawCommand {
	return DrawCommand{
		Points:  [4]Point{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}},
		N:       4,
		Color:   c,
		Opacity: opacity,
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCanvasSurface("hero", layout.Rect{W: 10, H: 10}, testBackground))
	r.Register(NewCanvasSurface("contact", layout.Rect{W: 10, H: 10}, testBackground))

	if r.Len() != 2 {
		t.Errorf("expected 2 surfaces, got %d", r.Len())
	}
	if _, ok := r.Lookup("hero"); !ok {
		t.Error("expected hero surface")
	}
	if _, ok := r.Lookup("footer"); ok {
		t.Error("expected missing surface lookup to fail")
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "contact" || names[1] != "hero" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestCanvasSurfaceClearAndFill(t *testing.T) {
	s := NewCanvasSurface("hero", layout.Rect{X: 50, Y: 50, W: 40, H: 30}, testBackground)

	img := s.Image()
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("expected 40x30 image, got %v", b)
	}

	s.Clear()
	s.Fill(squareCmd(10, 10, 10, testInk, 1))

	if got := s.Image().RGBAAt(2, 2); got != testBackground {
		t.Errorf("expected background at corner, got %v", got)
	}
	if got := s.Image().RGBAAt(15, 15); got != testInk {
		t.Errorf("expected ink inside square, got %v", got)
	}
	if s.Fills() != 1 {
		t.Errorf("expected 1 fill, got %d", s.Fills())
	}
}

func TestCanvasSurfaceResize(t *testing.T) {
	s := NewCanvasSurface("hero", layout.Rect{W: 40, H: 30}, testBackground)
	before := s.Image()

	s.SetBounds(layout.Rect{X: 5, W: 40, H: 30})
	if s.Image() != before {
		t.Error("expected backing image kept when only the offset changes")
	}

	s.SetBounds(layout.Rect{W: 20, H: 10})
	if b := s.Image().Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("expected 20x10 image after resize, got %v", b)
	}
}

func TestCanvasSurfaceSavePNG(t *testing.T) {
	s := NewCanvasSurface("hero", layout.Rect{W: 8, H: 8}, testBackground)
	s.Clear()

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty snapshot")
	}
}

type fakeScreen struct {
	cells map[[2]int]tcell.Style
}

func (f *fakeScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = style
}

func TestTerminalSurfaceGrid(t *testing.T) {
	scr := &fakeScreen{cells: make(map[[2]int]tcell.Style)}
	s := NewTerminalSurface("contact", layout.Rect{X: 0, Y: 160, W: 80, H: 160}, testBackground, scr, 8, 16)

	cols, rows := s.Grid()
	if cols != 10 || rows != 10 {
		t.Fatalf("expected 10x10 cells, got %dx%d", cols, rows)
	}

	s.BeginFrame()
	s.Clear()
	s.EndFrame()

	if len(scr.cells) != 100 {
		t.Errorf("expected 100 cells written, got %d", len(scr.cells))
	}
	if _, ok := scr.cells[[2]int{0, 10}]; !ok {
		t.Error("expected grid to start at row 10")
	}
}

func TestTerminalSurfaceBlending(t *testing.T) {
	scr := &fakeScreen{cells: make(map[[2]int]tcell.Style)}
	s := NewTerminalSurface("hero", layout.Rect{W: 80, H: 160}, testBackground, scr, 8, 16)
	s.Clear()

	bgR, _, _ := s.Cell(0, 0).RGB255()

	// Covers cells (1,1)..(2,2) at their centers.
	s.Fill(squareCmd(8, 16, 16, testInk, 1))
	r, g, b := s.Cell(1, 1).RGB255()
	if r != testInk.R || g != testInk.G || b != testInk.B {
		t.Errorf("expected opaque ink in covered cell, got (%d,%d,%d)", r, g, b)
	}

	// A tiny shape inside one cell only tints it.
	s.Fill(squareCmd(66, 130, 2, testInk, 1))
	tr, _, _ := s.Cell(8, 8).RGB255()
	if tr >= bgR || tr <= testInk.R {
		t.Errorf("expected partial tint between ink and background, got R=%d", tr)
	}

	if r, _, _ := s.Cell(5, 5).RGB255(); r != bgR {
		t.Errorf("expected untouched cell to keep background, got R=%d", r)
	}
}
