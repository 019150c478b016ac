// Package renderer draws projected particles onto named surfaces.
package renderer

import (
	"image/color"
	"sort"

	"github.com/pthm-cable/shardfield/layout"
)

// Point is a surface-local position in pixels.
type Point struct {
	X, Y float64
}

// DrawCommand is one filled polygon in surface-local coordinates.
// Only the first N points are used.
type DrawCommand struct {
	Points  [4]Point
	N       int
	Color   color.RGBA
	Opacity float64
}

// Vertices returns the polygon's points.
func (c *DrawCommand) Vertices() []Point {
	return c.Points[:c.N]
}

// Surface is an immediate-mode drawing sink occupying a region of the window.
type Surface interface {
	Name() string
	Bounds() layout.Rect
	SetBounds(r layout.Rect)
	Clear()
	Fill(cmd DrawCommand)
}

// Framer is implemented by surfaces that need setup before Clear and a flush after the last Fill.
type Framer interface {
	BeginFrame()
	EndFrame()
}

// Registry maps surface names to surfaces.
type Registry struct {
	surfaces map[string]Surface
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register adds a surface, replacing any surface with the same name.
func (r *Registry) Register(s Surface) {
	r.surfaces[s.Name()] = s
}

// Lookup returns the surface with the given name.
func (r *Registry) Lookup(name string) (Surface, bool) {
	s, ok := r.surfaces[name]
	return s, ok
}

// Names returns the registered surface names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.surfaces))
	for name := range r.surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	return len(r.surfaces)
}
