package engine

import (
	"time"

	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
)

// EventKind identifies an input event.
type EventKind uint8

const (
	EventPointerMove  EventKind = iota // Pointer moved, X/Y in window pixels
	EventPointerLeave                  // Pointer left the window
	EventResize                        // Surface changed size, raw and un-debounced
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointer_move"
	case EventPointerLeave:
		return "pointer_leave"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is one input observation handed to the frame loop.
type Event struct {
	Kind EventKind

	// Pointer position in window coordinates
	X, Y float64

	// Resized surface
	Surface       string
	Width, Height int
}

// PointerMove creates a pointer move event.
func PointerMove(x, y float64) Event {
	return Event{Kind: EventPointerMove, X: x, Y: y}
}

// PointerLeave creates a pointer leave event.
func PointerLeave() Event {
	return Event{Kind: EventPointerLeave}
}

// Resize creates a surface resize event.
func Resize(surface string, width, height int) Event {
	return Event{Kind: EventResize, Surface: surface, Width: width, Height: height}
}

// ResizeWindow applies a new window size to a layout and moves every
// registered surface to its new rect. It returns a resize event for each
// surface whose pixel size changed, and nothing for an empty or unchanged window.
func ResizeWindow(l *layout.Layout, reg *renderer.Registry, width, height int) []Event {
	if width <= 0 || height <= 0 {
		return nil
	}
	var events []Event
	for _, name := range l.Resize(width, height) {
		rect, _ := l.Lookup(name)
		if s, ok := reg.Lookup(name); ok {
			s.SetBounds(rect)
		}
		w, h := rect.Size()
		events = append(events, Resize(name, w, h))
	}
	return events
}

// FrameInput is what a host hands the loop for one frame.
type FrameInput struct {
	Now    time.Time
	Events []Event
}
