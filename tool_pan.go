package quill

// PanTool moves the view while the hand tool is active, while Space is held,
// or while the middle button is pressed. Only one pan session runs at a time.
type PanTool struct {
	active bool
	button MouseButton
	last   Vec2 // screen
	// swallowed holds buttons pressed during a session. Their releases are
	// consumed too.
	swallowed map[MouseButton]bool
}

// NewPanTool creates the pan handler.
func NewPanTool() *PanTool { return &PanTool{swallowed: make(map[MouseButton]bool)} }

func (p *PanTool) Name() string  { return HandlerPan }
func (p *PanTool) Priority() int { return PriorityPan }

// CanHandle accepts pointer events; Escape only during a session.
func (p *PanTool) CanHandle(ev *Event, state InteractionState) bool {
	if ev.Kind.IsPointer() {
		return true
	}
	return p.active && isEscape(ev)
}

// Active reports whether a pan session is running.
func (p *PanTool) Active() bool { return p.active }

// Cancel ends the session. The view keeps its current position.
func (p *PanTool) Cancel(ctx *Context) bool {
	if !p.active {
		return false
	}
	p.active = false
	clear(p.swallowed)
	return true
}

func (p *PanTool) engages(ev *Event, ctx *Context) bool {
	return ctx.Tool == ToolHand || ctx.KeyHeld(KeySpace) || ev.Button == MouseButtonMiddle
}

func (p *PanTool) Handle(ev *Event, ctx *Context) Result {
	switch ev.Kind {
	case EventPointerDown:
		if p.active {
			p.swallowed[ev.Button] = true
			return Result{Handled: true}
		}
		if !p.engages(ev, ctx) {
			return Result{}
		}
		p.active = true
		p.button = ev.Button
		p.last = ev.Screen
		return Result{Handled: true, NewState: StatePanning}

	case EventPointerMove:
		if !p.active {
			return Result{}
		}
		d := ev.Screen.Sub(p.last)
		p.last = ev.Screen
		if d.X == 0 && d.Y == 0 {
			return Result{Handled: true}
		}
		if ctx.Coords != nil {
			ctx.Coords.StopAnimation()
			ctx.Coords.UpdatePosition(d.X, d.Y)
		}
		return Result{Handled: true, RequestRender: true}

	case EventPointerUp:
		if p.swallowed[ev.Button] {
			delete(p.swallowed, ev.Button)
			return Result{Handled: true}
		}
		if !p.active || ev.Button != p.button {
			// Another gesture's button; its owner must see the release.
			return Result{}
		}
		p.active = false
		return Result{Handled: true, NewState: StateIdle}

	case EventPointerCancel:
		clear(p.swallowed)
		if !p.active {
			return Result{}
		}
		p.active = false
		return Result{Handled: true, NewState: StateIdle}

	case EventKeyDown:
		if p.Cancel(ctx) {
			return Result{Handled: true, NewState: StateIdle}
		}
	}
	return Result{}
}
