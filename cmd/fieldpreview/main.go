// Field preview tool - a single live field with sliders for the look.
//
// Usage: go run ./cmd/fieldpreview [-config path]
//
// S saves the tuning for the next session, C copies it as a config overlay.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/field"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
)

const (
	previewWidth  = 800
	previewHeight = 600
	panelWidth    = 340
	windowWidth   = previewWidth + panelWidth
	windowHeight  = 720

	tuningObject   = "tuning"
	tuningProperty = "current"
)

// Tuning is the subset of config the preview edits. It marshals to a valid
// config overlay.
type Tuning struct {
	Population config.PopulationConfig `yaml:"population"`
	Projection config.ProjectionConfig `yaml:"projection"`
	Spotlight  config.SpotlightConfig  `yaml:"spotlight"`
	Pointer    config.PointerConfig    `yaml:"pointer"`
}

func tuningFrom(cfg *config.Config) Tuning {
	return Tuning{
		Population: cfg.Population,
		Projection: cfg.Projection,
		Spotlight:  cfg.Spotlight,
		Pointer:    cfg.Pointer,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := gdata.Open(gdata.Config{AppName: "shardfield_preview"})
	if err != nil {
		slog.Warn("tuning persistence unavailable", "error", err)
		store = nil
	}
	if err := loadTuning(store, cfg); err != nil {
		slog.Warn("failed to load saved tuning", "error", err)
	}

	cfg.Surfaces = []config.SurfaceConfig{{Name: "preview", Width: 1, Height: 1}}
	cfg.Targets = []string{"preview"}

	rl.InitWindow(windowWidth, windowHeight, "Shard Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	l := layout.New(cfg.Surfaces, previewWidth, previewHeight)
	rect, _ := l.Lookup("preview")
	reg := renderer.NewRegistry()
	reg.Register(renderer.NewRaylibSurface("preview", rect, cfg.Derived.Background))

	e := engine.New(cfg, reg, engine.Options{Seed: uint64(time.Now().UnixNano())})
	params := e.Params()
	inst, _ := e.Instance("preview")
	tune := tuningFrom(cfg)
	status := ""

	for !rl.WindowShouldClose() {
		var events []engine.Event
		pos := rl.GetMousePosition()
		if rect.Contains(float64(pos.X), float64(pos.Y)) {
			events = append(events, engine.PointerMove(float64(pos.X), float64(pos.Y)))
		} else {
			events = append(events, engine.PointerLeave())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		e.Frame(time.Now(), events)

		st := inst.Field().Stats()
		statsY := int32(previewHeight + 15)
		rl.DrawText(fmt.Sprintf("Drawn: %d/%d  Lit: %d  Near: %d  Faint: %d",
			st.Drawn, st.Population, st.Spotlit, st.NearClipped, st.Faint), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Mean opacity: %.3f  Generation: %d  FPS: %d",
			st.MeanOpacity, inst.Field().Generation(), rl.GetFPS()), 15, statsY+20, 16, rl.DarkGray)
		if status != "" {
			rl.DrawText(status, 15, statsY+45, 14, rl.Gray)
		}

		// Control panel
		p := panel{x: float32(previewWidth + 15), y: 10}
		rl.DrawText("Field Parameters", int32(p.x), int32(p.y), 20, rl.DarkGray)
		p.y += 35

		p.section("Spotlight")
		p.slider("Radius", "%.0f", &tune.Spotlight.Radius, 50, 600)
		p.slider("Base opacity", "%.2f", &tune.Spotlight.BaseOpacity, 0, 1)
		p.slider("Fade offset", "%.0f", &tune.Spotlight.FadeOffset, 0, 600)
		p.slider("Cull threshold", "%.3f", &tune.Spotlight.CullThreshold, 0, 0.2)

		p.section("Projection")
		p.slider("Focal length", "%.0f", &tune.Projection.FocalLength, 300, 2000)
		p.slider("Parallax", "%.3f", &tune.Projection.Parallax, 0, 0.3)

		p.section("Pointer")
		p.slider("Smoothing", "%.2f", &tune.Pointer.Smoothing, 0.01, 1)

		p.section("Population")
		count := float64(tune.Population.Count)
		regen := p.slider("Count", "%.0f", &count, 100, 6000)
		tune.Population.Count = int(count)

		apply(params, inst, tune)
		if regen {
			inst.Field().Regenerate()
		}

		p.y += 10
		if gui.Button(rl.Rectangle{X: p.x, Y: p.y, Width: 150, Height: 30}, "Regenerate") {
			inst.Field().Regenerate()
		}
		if gui.Button(rl.Rectangle{X: p.x + 160, Y: p.y, Width: 150, Height: 30}, "Reset All") {
			tune = tuningFrom(defaults())
			apply(params, inst, tune)
			inst.Field().Regenerate()
		}
		p.y += 45

		if rl.IsKeyPressed(rl.KeyS) {
			if err := saveTuning(store, tune); err != nil {
				status = "Save failed: " + err.Error()
			} else {
				status = "Tuning saved"
			}
		}
		if rl.IsKeyPressed(rl.KeyC) {
			if data, err := yaml.Marshal(tune); err == nil {
				rl.SetClipboardText(string(data))
				status = "Config overlay copied to clipboard"
			}
		}
		rl.DrawText("S: save tuning | C: copy YAML overlay", int32(p.x), windowHeight-30, 12, rl.Gray)

		rl.EndDrawing()
	}
}

// apply pushes the tuning into the live parameters.
func apply(params *field.Params, inst *engine.Instance, t Tuning) {
	params.SpotlightRadius = t.Spotlight.Radius
	params.BaseOpacity = t.Spotlight.BaseOpacity
	params.FadeOffset = t.Spotlight.FadeOffset
	params.CullThreshold = t.Spotlight.CullThreshold
	params.FocalLength = t.Projection.FocalLength
	params.Parallax = t.Projection.Parallax
	params.Smoothing = t.Pointer.Smoothing
	params.Population = t.Population.Count
	inst.Field().Pointer().SetSmoothing(t.Pointer.Smoothing)
}

func defaults() *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		panic(fmt.Sprintf("embedded defaults: %v", err))
	}
	return cfg
}

// loadTuning overlays saved tuning onto cfg. A nil store or no saved tuning is not an error.
func loadTuning(store *gdata.Manager, cfg *config.Config) error {
	if store == nil || !store.ObjectPropExists(tuningObject, tuningProperty) {
		return nil
	}
	data, err := store.LoadObjectProp(tuningObject, tuningProperty)
	if err != nil {
		return fmt.Errorf("loading tuning: %w", err)
	}
	return config.Overlay(cfg, data)
}

func saveTuning(store *gdata.Manager, t Tuning) error {
	if store == nil {
		return fmt.Errorf("no data store")
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling tuning: %w", err)
	}
	if err := store.SaveObjectProp(tuningObject, tuningProperty, data); err != nil {
		return fmt.Errorf("saving tuning: %w", err)
	}
	return nil
}

// panel lays out labelled sliders top to bottom.
type panel struct {
	x, y float32
}

func (p *panel) section(title string) {
	rl.DrawLine(int32(p.x), int32(p.y), int32(p.x)+panelWidth-30, int32(p.y), rl.LightGray)
	p.y += 8
	rl.DrawText(title, int32(p.x), int32(p.y), 16, rl.DarkGray)
	p.y += 22
}

// slider draws a labelled slider bound to v and reports whether it changed.
func (p *panel) slider(label, format string, v *float64, lo, hi float64) bool {
	rl.DrawText(label, int32(p.x), int32(p.y), 14, rl.Gray)
	p.y += 18
	width := float32(panelWidth - 100)
	next := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: p.y, Width: width, Height: 18},
		"", "",
		float32(*v), float32(lo), float32(hi),
	)
	rl.DrawText(strings.TrimSpace(fmt.Sprintf(format, *v)), int32(p.x+width+10), int32(p.y+2), 14, rl.DarkGray)
	p.y += 28

	if float64(next) == float64(float32(*v)) {
		return false
	}
	*v = float64(next)
	return true
}
