package quill

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelUnit converts ebiten wheel offsets (lines) into the pixel-like deltas
// WheelZoomSpeed is tuned for.
const wheelUnit = 100

// inputState tracks the polled ebiten input between frames.
type inputState struct {
	known        bool
	lastX, lastY float64
	down         bool
	button       MouseButton

	keyBuf   []ebiten.Key
	touchIDs []ebiten.TouchID
	pinch    pinchState
}

// pinchState tracks a two-finger gesture across frames.
type pinchState struct {
	active      bool
	initialDist float64
	prevDist    float64
}

var ebitenKeys = map[ebiten.Key]Key{
	ebiten.KeySpace:          KeySpace,
	ebiten.KeyEscape:         KeyEscape,
	ebiten.KeyDelete:         KeyDelete,
	ebiten.KeyBackspace:      KeyBackspace,
	ebiten.KeyEqual:          KeyEqual,
	ebiten.KeyNumpadAdd:      KeyEqual,
	ebiten.KeyMinus:          KeyMinus,
	ebiten.KeyNumpadSubtract: KeyMinus,
	ebiten.KeyDigit0:         Key0,
	ebiten.KeyNumpad0:        Key0,
	ebiten.KeyDigit1:         Key1,
	ebiten.KeyNumpad1:        Key1,
	ebiten.KeyA:              KeyA,
	ebiten.KeyH:              KeyH,
	ebiten.KeyP:              KeyP,
	ebiten.KeyR:              KeyR,
	ebiten.KeyV:              KeyV,
	ebiten.KeyShiftLeft:      KeyShift,
	ebiten.KeyShiftRight:     KeyShift,
	ebiten.KeyControlLeft:    KeyControl,
	ebiten.KeyControlRight:   KeyControl,
	ebiten.KeyAltLeft:        KeyAlt,
	ebiten.KeyAltRight:       KeyAlt,
	ebiten.KeyMetaLeft:       KeyMeta,
	ebiten.KeyMetaRight:      KeyMeta,
}

var ebitenButtons = [...]struct {
	eb  ebiten.MouseButton
	btn MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// readModifiers returns the currently held modifier keys.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// PollInput reads this frame's ebiten input and dispatches the resulting
// events. Call it from ebiten.Game.Update before Editor.Update.
func (e *Editor) PollInput() {
	mods := readModifiers()
	e.pollKeys(mods)
	if e.pollPinch(mods) {
		return
	}
	e.pollMouse(mods)
	e.pollWheel(mods)
}

func (e *Editor) pollKeys(mods KeyModifiers) {
	in := &e.input
	in.keyBuf = inpututil.AppendJustPressedKeys(in.keyBuf[:0])
	for _, k := range in.keyBuf {
		if key, ok := ebitenKeys[k]; ok {
			e.Dispatch(KeyDown(key, mods))
		}
	}
	in.keyBuf = inpututil.AppendJustReleasedKeys(in.keyBuf[:0])
	for _, k := range in.keyBuf {
		if key, ok := ebitenKeys[k]; ok {
			e.Dispatch(KeyUp(key, mods))
		}
	}
}

// pollMouse handles pointer 0. The button captured at press time is kept
// until it is released.
func (e *Editor) pollMouse(mods KeyModifiers) {
	in := &e.input
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if !in.known || x != in.lastX || y != in.lastY {
		in.known = true
		in.lastX, in.lastY = x, y
		e.Dispatch(PointerMove(x, y, mods))
	}

	if in.down {
		for _, b := range ebitenButtons {
			if b.btn == in.button && inpututil.IsMouseButtonJustReleased(b.eb) {
				in.down = false
				e.Dispatch(PointerUp(x, y, b.btn, mods))
			}
		}
		return
	}
	for _, b := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			in.down = true
			in.button = b.btn
			e.Dispatch(PointerDown(x, y, b.btn, mods))
			return
		}
	}
}

func (e *Editor) pollWheel(mods KeyModifiers) {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	// ebiten reports positive y when scrolling up.
	e.Dispatch(Wheel(e.input.lastX, e.input.lastY, -dx*wheelUnit, -dy*wheelUnit, mods))
}

// pollPinch turns two simultaneous touches into pinch events. Reports whether
// a pinch is in progress, in which case mouse input is skipped.
func (e *Editor) pollPinch(mods KeyModifiers) bool {
	in := &e.input
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) != 2 {
		in.pinch.active = false
		return false
	}
	x0, y0 := ebiten.TouchPosition(in.touchIDs[0])
	x1, y1 := ebiten.TouchPosition(in.touchIDs[1])
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	dist := math.Hypot(float64(x1-x0), float64(y1-y0))

	if !in.pinch.active {
		in.pinch = pinchState{active: true, initialDist: dist, prevDist: dist}
		return true
	}
	scale := 1.0
	if in.pinch.initialDist > 0 {
		scale = dist / in.pinch.initialDist
	}
	delta := 0.0
	if in.pinch.prevDist > 0 {
		delta = dist/in.pinch.prevDist - 1.0
	}
	in.pinch.prevDist = dist
	if delta == 0 {
		return true
	}
	e.Dispatch(&Event{
		Kind:      EventPinch,
		Screen:    Vec2{cx, cy},
		Modifiers: mods,
		Pinch:     PinchPayload{CenterX: cx, CenterY: cy, Scale: scale, ScaleDelta: delta},
	})
	return true
}
