package quill

// DragTool moves every selected shape by the pointer delta. It engages on a
// press over an already-selected shape, or on a move past the drag threshold
// after the selection handler armed a press over a selected shape.
type DragTool struct {
	g       *Gesture
	pressID string
}

// NewDragTool creates the drag handler.
func NewDragTool() *DragTool { return &DragTool{} }

func (d *DragTool) Name() string  { return HandlerDrag }
func (d *DragTool) Priority() int { return PriorityDrag }

func (d *DragTool) CanHandle(ev *Event, state InteractionState) bool {
	if d.g != nil {
		return ev.Kind == EventPointerMove || isReleaseOf(ev, MouseButtonLeft) || isEscape(ev)
	}
	switch ev.Kind {
	case EventPointerDown:
		return ev.Button == MouseButtonLeft
	case EventPointerMove:
		return state == StateSelecting
	}
	return false
}

// Active reports whether a drag is in progress.
func (d *DragTool) Active() bool { return d.g != nil }

// Cancel restores the original positions of the dragged shapes.
func (d *DragTool) Cancel(ctx *Context) bool {
	if d.g == nil {
		return false
	}
	d.g.Cancel(ctx)
	d.g = nil
	return true
}

// begin opens a gesture over the current selection.
func (d *DragTool) begin(ctx *Context) {
	d.g = newGesture(ctx.Pointer.StartWorld)
	d.pressID = ctx.Pointer.HitID
	for _, id := range ctx.Selection.SelectedIDs() {
		if s, ok := ctx.Shape(id); ok {
			d.g.track(s)
		}
	}
}

// armed reports whether the press under way landed on a selected shape.
func (d *DragTool) armed(ctx *Context) bool {
	return ctx.Tool == ToolSelect && ctx.Selection != nil &&
		ctx.Pointer.Down && ctx.Pointer.Button == MouseButtonLeft &&
		ctx.Pointer.HitID != "" && ctx.Selection.IsSelected(ctx.Pointer.HitID)
}

func (d *DragTool) Handle(ev *Event, ctx *Context) Result {
	switch ev.Kind {
	case EventPointerDown:
		if ev.Modifiers.multiSelect() || !d.armed(ctx) {
			return Result{}
		}
		d.begin(ctx)
		return Result{Handled: true, NewState: StateSelecting}

	case EventPointerMove:
		if d.g == nil {
			// Armed by the selection handler: only a real drag takes over.
			if !d.armed(ctx) || ev.World.Dist(ctx.Pointer.StartWorld) <= ctx.Config.DragThreshold {
				return Result{}
			}
			d.begin(ctx)
		}
		if !d.g.exceeds(ev.World, ctx.Config.DragThreshold) {
			return Result{Handled: true}
		}
		d.moveTo(ctx, ev.World)
		return Result{Handled: true, NewState: StateDragging, RequestRender: true}

	case EventPointerCancel:
		d.Cancel(ctx)
		return cancelResult()

	case EventPointerUp:
		g := d.g
		if g.exceeds(ev.World, ctx.Config.DragThreshold) {
			d.moveTo(ctx, ev.World)
		}
		d.g = nil
		if g.Moved {
			ctx.emit(EditorEvent{Type: EditorShapesMoved, IDs: g.Commit(), Delta: g.Last.Sub(g.Anchor)})
			return Result{Handled: true, NewState: StateIdle, RequestRender: true}
		}
		// A click: nothing moves and the clicked shape becomes the sole
		// selection.
		if d.pressID != "" {
			if _, ok := ctx.Shape(d.pressID); ok {
				ctx.Selection.SelectNode(d.pressID)
				selectionChanged(ctx)
			}
		}
		return Result{Handled: true, NewState: StateIdle, RequestRender: true}

	case EventKeyDown:
		if d.Cancel(ctx) {
			return cancelResult()
		}
	}
	return Result{}
}

// moveTo offsets every tracked shape from its origin by p - anchor.
func (d *DragTool) moveTo(ctx *Context, p Vec2) {
	d.g.Last = p
	delta := p.Sub(d.g.Anchor)
	for _, id := range d.g.IDs {
		s, ok := ctx.Shape(id)
		if !ok {
			continue
		}
		orig, _ := d.g.origin(id)
		s.X = orig.X + delta.X
		s.Y = orig.Y + delta.Y
		ctx.reindex(s)
	}
}
