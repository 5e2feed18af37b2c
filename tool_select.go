package quill

// SelectionTool picks shapes on press, draws a marquee from empty space, and
// tracks hover while no button is held.
type SelectionTool struct {
	marquee *Gesture
	extend  bool
	hoverID string
}

// NewSelectionTool creates the selection handler.
func NewSelectionTool() *SelectionTool { return &SelectionTool{} }

func (s *SelectionTool) Name() string  { return HandlerSelection }
func (s *SelectionTool) Priority() int { return PrioritySelection }

func (s *SelectionTool) CanHandle(ev *Event, state InteractionState) bool {
	if ev.Kind.IsPointer() {
		return true
	}
	return s.marquee != nil && isEscape(ev)
}

// Active reports whether a marquee is being dragged.
func (s *SelectionTool) Active() bool { return s.marquee != nil }

// Cancel drops the marquee without touching the selection.
func (s *SelectionTool) Cancel(ctx *Context) bool {
	if s.marquee == nil {
		return false
	}
	s.marquee = nil
	return true
}

// Marquee returns the world-space marquee rectangle while one is dragged past
// the drag threshold.
func (s *SelectionTool) Marquee() (Rect, bool) {
	if s.marquee == nil || !s.marquee.Moved {
		return Rect{}, false
	}
	return rectFromPoints(s.marquee.Anchor, s.marquee.Last), true
}

// HoverID returns the shape under the idle pointer, if any.
func (s *SelectionTool) HoverID() string { return s.hoverID }

func (s *SelectionTool) Handle(ev *Event, ctx *Context) Result {
	if ctx.Tool != ToolSelect || ctx.Selection == nil {
		return Result{}
	}
	switch ev.Kind {
	case EventPointerDown:
		if ev.Button != MouseButtonLeft {
			return Result{}
		}
		return s.press(ev, ctx)
	case EventPointerMove:
		if ctx.Pointer.Down {
			return s.drag(ev, ctx)
		}
		return s.hover(ev, ctx)
	case EventPointerUp, EventPointerCancel:
		if !isReleaseOf(ev, MouseButtonLeft) {
			return Result{}
		}
		return s.release(ev, ctx)
	case EventKeyDown:
		if s.Cancel(ctx) {
			return cancelResult()
		}
	}
	return Result{}
}

func (s *SelectionTool) press(ev *Event, ctx *Context) Result {
	s.hoverID = ""
	hit := ctx.Pointer.HitID
	if hit == "" {
		s.marquee = newGesture(ev.World)
		s.extend = ev.Modifiers.Has(ModShift)
		if !s.extend && len(ctx.Selection.SelectedIDs()) > 0 {
			ctx.Selection.ClearSelection()
			selectionChanged(ctx)
		}
		return Result{Handled: true, NewState: StateSelecting, RequestRender: true}
	}
	switch {
	case ev.Modifiers.multiSelect():
		ctx.Selection.ToggleNode(hit)
	case !ctx.Selection.IsSelected(hit):
		ctx.Selection.SelectNode(hit)
	default:
		return Result{Handled: true, NewState: StateSelecting}
	}
	selectionChanged(ctx)
	return Result{Handled: true, NewState: StateSelecting, RequestRender: true}
}

func (s *SelectionTool) drag(ev *Event, ctx *Context) Result {
	if s.marquee == nil {
		return Result{Handled: true}
	}
	s.marquee.Last = ev.World
	if !s.marquee.exceeds(ev.World, ctx.Config.DragThreshold) {
		return Result{Handled: true}
	}
	return Result{Handled: true, RequestRender: true}
}

func (s *SelectionTool) hover(ev *Event, ctx *Context) Result {
	if ctx.State != StateIdle && ctx.State != StateHover {
		return Result{}
	}
	id := ""
	if hit, ok := ctx.HitAt(ev.World); ok {
		id = hit.ID
	}
	changed := id != s.hoverID
	s.hoverID = id
	next := StateIdle
	if id != "" {
		next = StateHover
	}
	return Result{Handled: true, NewState: next, RequestRender: changed}
}

func (s *SelectionTool) release(ev *Event, ctx *Context) Result {
	m := s.marquee
	s.marquee = nil
	if m == nil || !m.Moved || ev.Kind == EventPointerCancel {
		return Result{Handled: true, NewState: StateIdle, RequestRender: m != nil}
	}
	mode, err := ParseHitMode(ctx.Config.MarqueeMode)
	if err != nil {
		mode = HitIntersects
	}
	area := rectFromPoints(m.Anchor, ev.World)
	var ids []string
	if ctx.Hits != nil {
		ids = ctx.Hits.FindInRectangle(area, ctx.AllShapes(), mode)
	}
	if !s.extend {
		ctx.Selection.ClearSelection()
	}
	for _, id := range ids {
		ctx.Selection.AddToSelection(id)
	}
	selectionChanged(ctx)
	Logger().Debug("marquee selection", "mode", mode.String(), "matched", len(ids))
	return Result{Handled: true, NewState: StateIdle, RequestRender: true}
}
