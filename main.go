package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/platform"
	"github.com/pthm-cable/shardfield/renderer"
	"github.com/pthm-cable/shardfield/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backend := flag.String("backend", "raylib", "Display backend: raylib, ebiten, term or headless")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited, headless only)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot", "", "Directory for PNG snapshots of every surface after a headless run")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")

	flag.Parse()

	// Set up slog (JSON for structured logging). The terminal backend owns
	// stdout, so it logs nowhere unless a file is given.
	var out io.Writer = os.Stdout
	if *backend == "term" {
		out = io.Discard
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	opts := engine.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		Output:         output,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting shard field",
		"backend", *backend,
		"seed", rngSeed,
		"targets", cfg.Targets,
		"population", cfg.Population.Count,
	)

	switch *backend {
	case "headless":
		err = runHeadless(ctx, cfg, opts, *maxFrames, *snapshotDir)
	case "raylib":
		err = runRaylib(ctx, cfg, opts)
	case "ebiten":
		err = runEbiten(ctx, cfg, opts)
	case "term":
		err = runTerminal(ctx, cfg, opts)
	default:
		err = fmt.Errorf("unknown backend %q", *backend)
	}
	if err != nil {
		slog.Error("run failed", "backend", *backend, "error", err)
		os.Exit(1)
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, opts engine.Options, maxFrames int64, snapshotDir string) error {
	l := layout.New(cfg.Surfaces, cfg.Screen.Width, cfg.Screen.Height)
	reg := platform.CanvasSurfaces(cfg, l)
	host := engine.NewHeadlessHost(cfg.Headless, l, reg, maxFrames)
	e := engine.New(cfg, reg, opts)

	if err := e.Run(ctx, host); err != nil {
		return err
	}
	slog.Info("headless run finished", "frames", e.FrameCount())

	if snapshotDir == "" {
		return nil
	}
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	for _, name := range reg.Names() {
		s, _ := reg.Lookup(name)
		cs, ok := s.(*renderer.CanvasSurface)
		if !ok {
			continue
		}
		path := filepath.Join(snapshotDir, name+".png")
		if err := cs.SavePNG(path); err != nil {
			return err
		}
		slog.Info("snapshot saved", "surface", name, "path", path)
	}
	return nil
}

func runRaylib(ctx context.Context, cfg *config.Config, opts engine.Options) error {
	host := platform.NewRaylibHost(cfg)
	defer host.Close()

	e := engine.New(cfg, host.Registry(), opts)
	host.Attach(e)
	return e.Run(ctx, host)
}

func runEbiten(ctx context.Context, cfg *config.Config, opts engine.Options) error {
	game := platform.NewEbitenGame(cfg)
	e := engine.New(cfg, game.Registry(), opts)
	return game.Run(ctx, e)
}

func runTerminal(ctx context.Context, cfg *config.Config, opts engine.Options) error {
	host, err := platform.NewTerminalHost(cfg)
	if err != nil {
		return err
	}
	defer host.Close()

	e := engine.New(cfg, host.Registry(), opts)
	host.Attach(e)
	return e.Run(ctx, host)
}
