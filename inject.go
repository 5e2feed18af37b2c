package quill

// InjectEvent queues ev for dispatch. Queued events are consumed one per
// Update call, in order, with World recomputed from Screen at that time.
func (e *Editor) InjectEvent(ev *Event) {
	if ev == nil {
		return
	}
	e.injectQueue = append(e.injectQueue, ev)
}

// InjectPress queues a left-button press at the given screen coordinates.
func (e *Editor) InjectPress(x, y float64, mods KeyModifiers) {
	e.InjectEvent(PointerDown(x, y, MouseButtonLeft, mods))
}

// InjectMove queues a pointer move at the given screen coordinates. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (e *Editor) InjectMove(x, y float64, mods KeyModifiers) {
	e.InjectEvent(PointerMove(x, y, mods))
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (e *Editor) InjectRelease(x, y float64, mods KeyModifiers) {
	e.InjectEvent(PointerUp(x, y, MouseButtonLeft, mods))
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (e *Editor) InjectClick(x, y float64, mods KeyModifiers) {
	e.InjectPress(x, y, mods)
	e.InjectRelease(x, y, mods)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The total sequence consumes frames frames; the minimum is 2.
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int, mods KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, mods)
	}
	e.InjectRelease(toX, toY, mods)
}

// InjectWheel queues a wheel event with the pointer at (x, y).
func (e *Editor) InjectWheel(x, y, dx, dy float64, mods KeyModifiers) {
	e.InjectEvent(Wheel(x, y, dx, dy, mods))
}

// InjectKey queues a key press followed by its release. Consumes two frames.
func (e *Editor) InjectKey(k Key, mods KeyModifiers) {
	e.InjectEvent(KeyDown(k, mods))
	e.InjectEvent(KeyUp(k, mods))
}

// Pending returns the number of queued synthetic events.
func (e *Editor) Pending() int {
	return len(e.injectQueue)
}

// processInjectedInput pops one event from the queue and dispatches it.
// Reports whether an event was consumed.
func (e *Editor) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue[len(e.injectQueue)-1] = nil
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	e.Dispatch(ev)
	return true
}
