package ui

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/telemetry"
)

// FieldLine is the HUD summary of one field.
type FieldLine struct {
	Name        string
	State       string
	Population  int
	Drawn       int
	Spotlit     int
	Generation  int
	MeanOpacity float64
	Pointer     bool
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Frame   int64
	FPS     int32
	Fields  []FieldLine
	Palette []color.RGBA
}

// Snapshot collects HUD data from a running engine.
func Snapshot(title string, e *engine.Engine, fps int32) HUDData {
	data := HUDData{Title: title, Frame: e.FrameCount(), FPS: fps}
	for _, inst := range e.Instances() {
		f := inst.Field()
		st := f.Stats()
		data.Fields = append(data.Fields, FieldLine{
			Name:        inst.Name(),
			State:       f.State().String(),
			Population:  f.Population(),
			Drawn:       st.Drawn,
			Spotlit:     st.Spotlit,
			Generation:  f.Generation(),
			MeanOpacity: st.MeanOpacity,
			Pointer:     f.Pointer().State().Present(),
		})
	}
	if pal := e.Params().Palette; pal != nil {
		mid := uint8(pal.Steps() / 2)
		for i := 0; i < pal.Len(); i++ {
			data.Palette = append(data.Palette, pal.Color(uint8(i), mid))
		}
	}
	return data
}

// Lines renders the HUD as plain text, one line per row.
func (d HUDData) Lines() []string {
	lines := []string{
		d.Title,
		fmt.Sprintf("Frame: %d | FPS: %d", d.Frame, d.FPS),
	}
	for _, f := range d.Fields {
		pointer := ""
		if f.Pointer {
			pointer = " *"
		}
		lines = append(lines, fmt.Sprintf("%s [%s] gen %d | %d/%d drawn | %d lit%s",
			f.Name, f.State, f.Generation, f.Drawn, f.Population, f.Spotlit, pointer))
	}
	return lines
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    340,
	}
}

// Height returns the panel height for the given data.
func (h *HUD) Height(data HUDData) int32 {
	t := h.renderer.Theme
	rows := int32(2 + 2*len(data.Fields))
	if len(data.Palette) > 0 {
		rows++
	}
	return 2*t.Padding + rows*t.LineHeight + 24
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData, screenW, screenH int32) {
	r := h.renderer
	pad := r.Theme.Padding
	height := h.Height(data)
	x, y := Anchor(AnchorTopLeft, h.width, height, screenW, screenH, 10)

	r.DrawPanel(x, y, h.width, height)
	x += pad
	y += pad

	rl.DrawText(data.Title, x, y, 18, r.Theme.ValueColor)
	y += 22
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d  (%d fps)", data.Frame, data.FPS))

	for _, f := range data.Fields {
		header := fmt.Sprintf("%s  gen %d  %s", f.Name, f.Generation, f.State)
		if f.Pointer {
			header += "  *"
		}
		y = r.DrawSectionHeader(x, y+2, header)
		y = r.DrawBar(x, y, fmt.Sprintf("%d/%d", f.Drawn, f.Population), f.MeanOpacity, h.width-2*pad)
	}

	if len(data.Palette) > 0 {
		r.DrawSwatches(x, y+2, "Palette", data.Palette)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.MutedColor)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		width:    260,
	}
}

// Draw renders the performance panel in the top-right corner.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, screenW, screenH int32) {
	r := p.renderer
	pad := r.Theme.Padding
	phases := telemetry.Phases()
	height := 2*pad + int32(len(phases)+2)*(r.Theme.LineHeight+2) + 4
	x, y := Anchor(AnchorTopRight, p.width, height, screenW, screenH, 10)

	r.DrawPanel(x, y, p.width, height)
	x += pad
	y += pad

	y = r.DrawSectionHeader(x, y, "Frame Phases")
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%s avg, %s max",
		stats.AvgFrameDuration.Round(time.Microsecond), stats.MaxFrameDuration.Round(time.Microsecond)))

	for _, phase := range phases {
		y = r.DrawLoadBar(x, y, phase, stats.PhasePct[phase]/100, p.width-2*pad)
	}
}
