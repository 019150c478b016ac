package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Population.Count != 2500 {
		t.Errorf("expected population 2500, got %d", cfg.Population.Count)
	}
	if len(cfg.Derived.Palette) != 4 {
		t.Fatalf("expected 4 palette colors, got %d", len(cfg.Derived.Palette))
	}
	want := color.RGBA{R: 0xF9, G: 0x4A, B: 0x29, A: 255}
	if cfg.Derived.Palette[0] != want {
		t.Errorf("expected first palette color %v, got %v", want, cfg.Derived.Palette[0])
	}
	if cfg.Derived.Debounce != 200*time.Millisecond {
		t.Errorf("expected 200ms debounce, got %v", cfg.Derived.Debounce)
	}
	if _, ok := cfg.Surface("hero"); !ok {
		t.Error("expected hero surface in defaults")
	}
}

func TestLoadOverlaysOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.yaml")
	data := []byte("spotlight:\n  radius: 400\npalette:\n  - \"#000000\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}

	if cfg.Spotlight.Radius != 400 {
		t.Errorf("expected overridden radius 400, got %f", cfg.Spotlight.Radius)
	}
	if cfg.Spotlight.BaseOpacity != 0.15 {
		t.Errorf("expected default base opacity to survive, got %f", cfg.Spotlight.BaseOpacity)
	}
	if len(cfg.Derived.Palette) != 1 {
		t.Errorf("expected palette to be replaced by overlay, got %d colors", len(cfg.Derived.Palette))
	}
}

func TestLoadRejectsBadPalette(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("palette:\n  - \"#12\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed palette entry")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#0F172A", color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 255}, false},
		{"cbd5e1", color.RGBA{R: 0xCB, G: 0xD5, B: 0xE1, A: 255}, false},
		{"#GG0000", color.RGBA{}, true},
		{"#FFF", color.RGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#12345", color.RGBA{}, true},
	}

	for _, tc := range tests {
		got, err := ParseHex(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseHex(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHex(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHex(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Count = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if reloaded.Population.Count != 42 {
		t.Errorf("expected population 42 after reload, got %d", reloaded.Population.Count)
	}
}
