package quill

import (
	"fmt"
	"time"
)

// EventStore is the interface for optional observers such as an ECS bridge.
// When set on an Editor, editor events are forwarded to it synchronously.
type EventStore interface {
	EmitEvent(event EditorEvent)
}

// EditorEventType identifies what an EditorEvent reports.
type EditorEventType uint8

const (
	EditorStateChanged     EditorEventType = iota // From/To are valid
	EditorSelectionChanged                        // IDs is the new selection
	EditorShapeCreated                            // IDs holds the new shape
	EditorShapesMoved                             // IDs moved by Delta
	EditorShapeResized                            // IDs holds the resized shape
	EditorShapesDeleted                           // IDs were removed
	EditorToolChanged                             // Tool is the new tool
	EditorRenderRequested                         // a frame was requested
	EditorGestureCanceled                         // IDs were restored
)

var editorEventNames = [...]string{
	"state", "selection", "created", "moved", "resized", "deleted",
	"tool", "render", "canceled",
}

func (t EditorEventType) String() string {
	if int(t) < len(editorEventNames) {
		return editorEventNames[t]
	}
	return fmt.Sprintf("EditorEventType(%d)", t)
}

// EditorEvent carries editor activity to an EventStore.
type EditorEvent struct {
	Type      EditorEventType
	Timestamp time.Time
	From, To  InteractionState
	Tool      Tool
	IDs       []string
	// Delta is the world-space offset of an EditorShapesMoved event.
	Delta Vec2
}

// EventRecorder is an EventStore that keeps every event in memory.
type EventRecorder struct {
	Events []EditorEvent
}

// EmitEvent appends event.
func (r *EventRecorder) EmitEvent(event EditorEvent) {
	r.Events = append(r.Events, event)
}

// OfType returns the recorded events of type t.
func (r *EventRecorder) OfType(t EditorEventType) []EditorEvent {
	var out []EditorEvent
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops every recorded event.
func (r *EventRecorder) Reset() {
	r.Events = r.Events[:0]
}

// multiStore fans events out to several stores.
type multiStore []EventStore

func (m multiStore) EmitEvent(event EditorEvent) {
	for _, s := range m {
		s.EmitEvent(event)
	}
}
