package quill

import (
	"fmt"
	"strings"
	"time"
)

// EventKind identifies the kind of a normalized input event.
type EventKind uint8

const (
	EventPointerDown   EventKind = iota // a pointer button was pressed
	EventPointerMove                    // the pointer moved (pressed or hovering)
	EventPointerUp                      // a pointer button was released
	EventPointerCancel                  // the host aborted the pointer sequence
	EventWheel                          // wheel or trackpad scroll
	EventPinch                          // two-finger pinch/zoom gesture step
	EventKeyDown                        // a key was pressed
	EventKeyUp                          // a key was released
)

var eventKindNames = [...]string{
	"pointerdown", "pointermove", "pointerup", "pointercancel",
	"wheel", "pinch", "keydown", "keyup",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// IsPointer reports whether k is one of the pointer kinds.
func (k EventKind) IsPointer() bool {
	return k <= EventPointerCancel
}

// WheelPayload is valid for EventWheel. Positive DeltaY scrolls down, which
// zooms out.
type WheelPayload struct {
	DeltaX, DeltaY float64
}

// PinchPayload is valid for EventPinch. Center is in screen coordinates.
type PinchPayload struct {
	CenterX, CenterY float64
	// Scale is the cumulative scale since the pinch began.
	Scale float64
	// ScaleDelta is the change since the previous step (e.g. 0.05 = 5% larger).
	ScaleDelta float64
}

// Key identifies a keyboard key relevant to the editor.
type Key uint8

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEscape
	KeyDelete
	KeyBackspace
	KeyEqual
	KeyMinus
	Key0
	Key1
	KeyA
	KeyH
	KeyP
	KeyR
	KeyV
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
)

var keyNames = [...]string{
	"unknown", "space", "escape", "delete", "backspace", "equal", "minus",
	"0", "1", "a", "h", "p", "r", "v", "shift", "control", "alt", "meta",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// ParseKey converts a key name such as "space" or "V" into a Key.
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "esc":
		return KeyEscape, nil
	case "=", "plus":
		return KeyEqual, nil
	case "-":
		return KeyMinus, nil
	case "ctrl":
		return KeyControl, nil
	}
	for i, kn := range keyNames {
		if i > 0 && kn == n {
			return Key(i), nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// Event is a normalized input event. Kind selects which payload fields are
// meaningful: Button for pointer kinds, Wheel for EventWheel, Pinch for
// EventPinch and Key for the key kinds. Screen is always the pointer position
// as reported by the host; World is filled in by the Dispatcher.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	PointerID int
	Screen    Vec2
	World     Vec2
	Button    MouseButton
	Modifiers KeyModifiers

	Wheel WheelPayload
	Pinch PinchPayload
	Key   Key

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault marks the event as consumed so the host skips its default
// behavior (e.g. page scrolling for wheel events).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the host from delivering the event to other
// listeners.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// --- Constructors ---

// PointerDown builds a pointer press event at screen (x, y).
func PointerDown(x, y float64, button MouseButton, mods KeyModifiers) *Event {
	return &Event{Kind: EventPointerDown, Timestamp: time.Now(), Screen: Vec2{x, y}, Button: button, Modifiers: mods}
}

// PointerMove builds a pointer move event at screen (x, y).
func PointerMove(x, y float64, mods KeyModifiers) *Event {
	return &Event{Kind: EventPointerMove, Timestamp: time.Now(), Screen: Vec2{x, y}, Modifiers: mods}
}

// PointerUp builds a pointer release event at screen (x, y).
func PointerUp(x, y float64, button MouseButton, mods KeyModifiers) *Event {
	return &Event{Kind: EventPointerUp, Timestamp: time.Now(), Screen: Vec2{x, y}, Button: button, Modifiers: mods}
}

// Wheel builds a wheel event with the pointer at screen (x, y).
func Wheel(x, y, dx, dy float64, mods KeyModifiers) *Event {
	return &Event{Kind: EventWheel, Timestamp: time.Now(), Screen: Vec2{x, y},
		Wheel: WheelPayload{DeltaX: dx, DeltaY: dy}, Modifiers: mods}
}

// KeyDown builds a key press event.
func KeyDown(k Key, mods KeyModifiers) *Event {
	return &Event{Kind: EventKeyDown, Timestamp: time.Now(), Key: k, Modifiers: mods}
}

// KeyUp builds a key release event.
func KeyUp(k Key, mods KeyModifiers) *Event {
	return &Event{Kind: EventKeyUp, Timestamp: time.Now(), Key: k, Modifiers: mods}
}
