// Package telemetry provides frame performance tracking and windowed field statistics.
package telemetry

// EventType identifies field lifecycle events.
type EventType uint8

const (
	EventResizeNotified EventType = iota
	EventRegenerated
	EventPointerEnter
	EventPointerLeave
)

func (t EventType) String() string {
	switch t {
	case EventResizeNotified:
		return "resize_notified"
	case EventRegenerated:
		return "regenerated"
	case EventPointerEnter:
		return "pointer_enter"
	case EventPointerLeave:
		return "pointer_leave"
	default:
		return "unknown"
	}
}

// Event is a single lifecycle event on a named field.
type Event struct {
	Type  EventType
	Frame int64
	Field string
}

// NewResizeEvent creates a raw resize notification event.
func NewResizeEvent(frame int64, field string) Event {
	return Event{Type: EventResizeNotified, Frame: frame, Field: field}
}

// NewRegeneratedEvent creates a population regeneration event.
func NewRegeneratedEvent(frame int64, field string) Event {
	return Event{Type: EventRegenerated, Frame: frame, Field: field}
}

// NewPointerEvent creates a pointer enter or leave event.
func NewPointerEvent(frame int64, field string, entered bool) Event {
	t := EventPointerLeave
	if entered {
		t = EventPointerEnter
	}
	return Event{Type: t, Frame: frame, Field: field}
}
