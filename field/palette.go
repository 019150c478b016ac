package field

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

// Palette holds a precomputed shade ramp for every base color.
// Shades keep hue and saturation and step the HSV value around the base color.
type Palette struct {
	shades [][]color.RGBA
}

// NewPalette builds steps shades per base color, spread over +/- jitter of the base value.
func NewPalette(base []color.RGBA, steps int, jitter float64) *Palette {
	if steps < 1 {
		steps = 1
	}
	p := &Palette{shades: make([][]color.RGBA, len(base))}
	for i, c := range base {
		h, s, v := colorconv.RGBToHSV(c.R, c.G, c.B)
		ramp := make([]color.RGBA, steps)
		for j := range ramp {
			f := 1.0
			if steps > 1 {
				f = 1 + jitter*(2*float64(j)/float64(steps-1)-1)
			}
			nv := min(1, max(0, v*f))
			r, g, b, err := colorconv.HSVToRGB(h, s, nv)
			if err != nil {
				ramp[j] = c
				continue
			}
			ramp[j] = color.RGBA{R: r, G: g, B: b, A: 255}
		}
		p.shades[i] = ramp
	}
	return p
}

// Len returns the number of base colors.
func (p *Palette) Len() int {
	return len(p.shades)
}

// Steps returns the number of shades per base color.
func (p *Palette) Steps() int {
	if len(p.shades) == 0 {
		return 0
	}
	return len(p.shades[0])
}

// Color returns the shade of a base color. Out-of-range ids fall back to the nearest entry.
func (p *Palette) Color(id, shade uint8) color.RGBA {
	if len(p.shades) == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	ramp := p.shades[min(int(id), len(p.shades)-1)]
	return ramp[min(int(shade), len(ramp)-1)]
}
