package quill

import "math"

// Corner identifies a resize handle.
type Corner uint8

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// corners returns the four corners of r in Corner order.
func corners(r Rect) [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}
}

// ResizeTool rescales the single selected shape by dragging one of its corner
// handles. The opposite corner stays fixed. Rotated shapes expose no handles.
type ResizeTool struct {
	g      *Gesture
	id     string
	fixed  Vec2
	corner Corner
}

// NewResizeTool creates the resize handler.
func NewResizeTool() *ResizeTool { return &ResizeTool{} }

func (r *ResizeTool) Name() string  { return HandlerResize }
func (r *ResizeTool) Priority() int { return PriorityResize }

func (r *ResizeTool) CanHandle(ev *Event, state InteractionState) bool {
	if r.g != nil {
		return ev.Kind == EventPointerMove || isReleaseOf(ev, MouseButtonLeft) || isEscape(ev)
	}
	return ev.Kind == EventPointerDown && ev.Button == MouseButtonLeft
}

// Active reports whether a resize is in progress.
func (r *ResizeTool) Active() bool { return r.g != nil }

// Cancel restores the original box.
func (r *ResizeTool) Cancel(ctx *Context) bool {
	if r.g == nil {
		return false
	}
	r.g.Cancel(ctx)
	r.g = nil
	return true
}

// HandleAt returns the corner handle of the single selected shape under world
// point p.
func HandleAt(ctx *Context, p Vec2) (*Shape, Corner, bool) {
	if ctx.Selection == nil {
		return nil, 0, false
	}
	ids := ctx.Selection.SelectedIDs()
	if len(ids) != 1 {
		return nil, 0, false
	}
	s, ok := ctx.Shape(ids[0])
	if !ok || s.Rotation != 0 {
		return nil, 0, false
	}
	half := ctx.Config.HandleSize / 2
	if ctx.Coords != nil {
		half /= ctx.Coords.Scale()
	}
	for i, c := range corners(s.Box()) {
		if math.Abs(p.X-c.X) <= half && math.Abs(p.Y-c.Y) <= half {
			return s, Corner(i), true
		}
	}
	return nil, 0, false
}

func (r *ResizeTool) Handle(ev *Event, ctx *Context) Result {
	switch ev.Kind {
	case EventPointerDown:
		if ctx.Tool != ToolSelect || ev.Modifiers.multiSelect() {
			return Result{}
		}
		s, corner, ok := HandleAt(ctx, ev.World)
		if !ok {
			return Result{}
		}
		r.g = newGesture(ev.World)
		r.g.track(s)
		r.id = s.ID
		r.corner = corner
		r.fixed = corners(s.Box())[(corner+2)%4]
		return Result{Handled: true, NewState: StateSelecting}

	case EventPointerMove:
		if !r.g.exceeds(ev.World, ctx.Config.DragThreshold) {
			return Result{Handled: true}
		}
		s, ok := ctx.Shape(r.id)
		if !ok {
			// Deleted mid-gesture.
			r.g = nil
			return Result{Handled: true, NewState: StateIdle}
		}
		r.g.Last = ev.World
		r.apply(s, ev.World, ctx.Config.MinShapeSize)
		ctx.reindex(s)
		return Result{Handled: true, NewState: StateResizing, RequestRender: true}

	case EventPointerCancel:
		r.Cancel(ctx)
		return cancelResult()

	case EventPointerUp:
		g := r.g
		if g.exceeds(ev.World, ctx.Config.DragThreshold) {
			if s, ok := ctx.Shape(r.id); ok {
				g.Last = ev.World
				r.apply(s, ev.World, ctx.Config.MinShapeSize)
				ctx.reindex(s)
			}
		}
		r.g = nil
		if !g.Moved {
			return Result{Handled: true, NewState: StateIdle}
		}
		ctx.emit(EditorEvent{Type: EditorShapeResized, IDs: g.Commit()})
		return Result{Handled: true, NewState: StateIdle, RequestRender: true}

	case EventKeyDown:
		if r.Cancel(ctx) {
			return cancelResult()
		}
	}
	return Result{}
}

// apply sets the box of s to span the fixed corner and p, with each side at
// least minSize. Path points are scaled with the box.
func (r *ResizeTool) apply(s *Shape, p Vec2, minSize float64) {
	orig, _ := r.g.origin(s.ID)

	w := math.Max(math.Abs(p.X-r.fixed.X), minSize)
	h := math.Max(math.Abs(p.Y-r.fixed.Y), minSize)
	x, y := r.fixed.X, r.fixed.Y
	if p.X < r.fixed.X {
		x -= w
	}
	if p.Y < r.fixed.Y {
		y -= h
	}
	s.X, s.Y, s.W, s.H = x, y, w, h

	if len(orig.Points) == len(s.Points) && len(s.Points) > 0 {
		sx, sy := 1.0, 1.0
		if orig.W > 0 {
			sx = w / orig.W
		}
		if orig.H > 0 {
			sy = h / orig.H
		}
		for i, pt := range orig.Points {
			s.Points[i] = Vec2{pt.X * sx, pt.Y * sy}
		}
	}
}
