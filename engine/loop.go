package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrHostClosed is returned by a host when it will produce no more frames.
var ErrHostClosed = errors.New("host closed")

// Host paces frames and supplies input.
type Host interface {
	// NextFrame blocks until the next frame is due and returns the input gathered since the last one.
	NextFrame(ctx context.Context) (FrameInput, error)
	// Present shows the frame just rendered.
	Present() error
}

// Run drives frames from host until Stop is called, ctx is cancelled or the
// host closes. The stop flag and the context are checked before every frame
// request; a frame that has started always completes.
func (e *Engine) Run(ctx context.Context, host Host) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	if e.stopped.Load() {
		return nil
	}

	slog.Info("frame loop started", "targets", len(e.instances))
	defer func() {
		slog.Info("frame loop stopped", "frames", e.frame)
	}()

	for {
		if e.stopped.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		in, err := host.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, ErrHostClosed) || ctx.Err() != nil || e.stopped.Load() {
				return nil
			}
			return fmt.Errorf("waiting for frame: %w", err)
		}

		e.Frame(in.Now, in.Events)

		if err := host.Present(); err != nil {
			if errors.Is(err, ErrHostClosed) {
				return nil
			}
			return fmt.Errorf("presenting frame: %w", err)
		}
		e.perf.RecordPresent()
	}
}

// Stop ends the frame loop. It is safe to call from any goroutine, more than
// once, and before Run, in which case Run returns immediately.
func (e *Engine) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Stopped reports whether Stop has been called.
func (e *Engine) Stopped() bool {
	return e.stopped.Load()
}
