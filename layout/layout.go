// Package layout places named drawing surfaces inside the window and maps
// window coordinates into surface-local ones.
package layout

import (
	"math"

	"github.com/pthm-cable/shardfield/config"
)

// Rect is a surface's placement in window pixels.
type Rect struct {
	X, Y float64
	W, H float64
}

// ToLocal converts window coordinates into coordinates relative to the rect's top-left corner.
func (r Rect) ToLocal(wx, wy float64) (lx, ly float64) {
	return wx - r.X, wy - r.Y
}

// ToWindow converts surface-local coordinates back into window coordinates.
func (r Rect) ToWindow(lx, ly float64) (wx, wy float64) {
	return lx + r.X, ly + r.Y
}

// Contains reports whether a window point lies inside the rect.
// The right and bottom edges are exclusive.
func (r Rect) Contains(wx, wy float64) bool {
	return wx >= r.X && wx < r.X+r.W && wy >= r.Y && wy < r.Y+r.H
}

// Size returns the rect size rounded to whole pixels.
func (r Rect) Size() (width, height int) {
	return int(math.Round(r.W)), int(math.Round(r.H))
}

// Empty reports whether the rect has no drawable area.
func (r Rect) Empty() bool {
	w, h := r.Size()
	return w <= 0 || h <= 0
}

// Region is a named surface and its current rect.
type Region struct {
	Name string
	Rect Rect

	frac config.SurfaceConfig
}

// Layout tracks the rects of all configured surfaces for the current window size.
type Layout struct {
	regions          []Region
	windowW, windowH float64
}

// New creates a layout for the given surfaces at the given window size.
func New(surfaces []config.SurfaceConfig, windowW, windowH int) *Layout {
	l := &Layout{regions: make([]Region, 0, len(surfaces))}
	for _, s := range surfaces {
		l.regions = append(l.regions, Region{Name: s.Name, frac: s})
	}
	l.windowW, l.windowH = -1, -1
	l.Resize(windowW, windowH)
	return l
}

// Resize recomputes every rect for a new window size and returns the names
// of the regions whose pixel size changed.
func (l *Layout) Resize(windowW, windowH int) []string {
	w, h := float64(windowW), float64(windowH)
	if w == l.windowW && h == l.windowH {
		return nil
	}
	l.windowW, l.windowH = w, h

	var changed []string
	for i := range l.regions {
		reg := &l.regions[i]
		next := fromFractions(reg.frac, w, h)
		ow, oh := reg.Rect.Size()
		nw, nh := next.Size()
		reg.Rect = next
		if ow != nw || oh != nh {
			changed = append(changed, reg.Name)
		}
	}
	return changed
}

// WindowSize returns the window size the rects were computed for.
func (l *Layout) WindowSize() (width, height int) {
	return int(l.windowW), int(l.windowH)
}

// Lookup returns the rect of a named region.
func (l *Layout) Lookup(name string) (Rect, bool) {
	for _, reg := range l.regions {
		if reg.Name == name {
			return reg.Rect, true
		}
	}
	return Rect{}, false
}

// Regions returns the regions in configuration order.
func (l *Layout) Regions() []Region {
	return l.regions
}

// fromFractions scales a fractional surface placement to window pixels.
// Fractions are clamped to the window.
func fromFractions(s config.SurfaceConfig, windowW, windowH float64) Rect {
	x := clamp(s.X, 0, 1)
	y := clamp(s.Y, 0, 1)
	w := clamp(s.Width, 0, 1-x)
	h := clamp(s.Height, 0, 1-y)
	return Rect{
		X: math.Round(x * windowW),
		Y: math.Round(y * windowH),
		W: math.Round(w * windowW),
		H: math.Round(h * windowH),
	}
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
