package quill

import "math"

// RectangleTool creates rectangles. The shape is only inserted once the
// pointer travels past the drag threshold; a plain click inserts a
// default-sized rectangle at the press point.
type RectangleTool struct {
	g *Gesture
}

// NewRectangleTool creates the rectangle handler.
func NewRectangleTool() *RectangleTool { return &RectangleTool{} }

func (r *RectangleTool) Name() string  { return HandlerRectangle }
func (r *RectangleTool) Priority() int { return PriorityRectangle }

func (r *RectangleTool) CanHandle(ev *Event, state InteractionState) bool {
	if r.g != nil {
		return ev.Kind == EventPointerMove || isReleaseOf(ev, MouseButtonLeft) || isEscape(ev)
	}
	return ev.Kind == EventPointerDown && ev.Button == MouseButtonLeft
}

// Active reports whether a rectangle is being created.
func (r *RectangleTool) Active() bool { return r.g != nil }

// Cancel removes the preview shape, if one was inserted.
func (r *RectangleTool) Cancel(ctx *Context) bool {
	if r.g == nil {
		return false
	}
	r.g.Cancel(ctx)
	r.g = nil
	return true
}

// Preview returns the shape being created, if any.
func (r *RectangleTool) Preview(ctx *Context) (*Shape, bool) {
	if r.g == nil {
		return nil, false
	}
	return ctx.Shape(r.g.Created)
}

// sizedRect spans anchor to p with each side at least minSize, growing in the
// direction of travel.
func sizedRect(anchor, p Vec2, minSize float64) Rect {
	w := math.Max(math.Abs(p.X-anchor.X), minSize)
	h := math.Max(math.Abs(p.Y-anchor.Y), minSize)
	x, y := anchor.X, anchor.Y
	if p.X < anchor.X {
		x -= w
	}
	if p.Y < anchor.Y {
		y -= h
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// insert adds a new rectangle with box b to the store and the index.
func (r *RectangleTool) insert(ctx *Context, b Rect) *Shape {
	s := &Shape{ID: NewShapeID(ShapeRect), Kind: ShapeRect, X: b.X, Y: b.Y, W: b.Width, H: b.Height}
	ctx.Store.AddNode(s)
	ctx.reindex(s)
	r.g.Created = s.ID
	return s
}

func (r *RectangleTool) Handle(ev *Event, ctx *Context) Result {
	switch ev.Kind {
	case EventPointerDown:
		if ctx.Tool != ToolRectangle || ctx.Store == nil {
			return Result{}
		}
		r.g = newGesture(ev.World)
		return Result{Handled: true, NewState: StateCreating}

	case EventPointerMove:
		if !r.g.exceeds(ev.World, ctx.Config.DragThreshold) {
			return Result{Handled: true}
		}
		r.g.Last = ev.World
		b := sizedRect(r.g.Anchor, ev.World, ctx.Config.MinShapeSize)
		s, ok := ctx.Shape(r.g.Created)
		if !ok {
			r.insert(ctx, b)
			return Result{Handled: true, RequestRender: true}
		}
		s.X, s.Y, s.W, s.H = b.X, b.Y, b.Width, b.Height
		ctx.reindex(s)
		return Result{Handled: true, RequestRender: true}

	case EventPointerCancel:
		r.Cancel(ctx)
		return cancelResult()

	case EventPointerUp:
		g := r.g
		s, ok := ctx.Shape(g.Created)
		switch {
		case g.exceeds(ev.World, ctx.Config.DragThreshold):
			b := sizedRect(g.Anchor, ev.World, ctx.Config.MinShapeSize)
			if !ok {
				s = r.insert(ctx, b)
			} else {
				s.X, s.Y, s.W, s.H = b.X, b.Y, b.Width, b.Height
				ctx.reindex(s)
			}
		case !ok:
			size := ctx.Config.DefaultShapeSize
			s = r.insert(ctx, Rect{X: g.Anchor.X, Y: g.Anchor.Y, Width: size, Height: size})
		}
		r.g = nil
		g.Commit()
		if ctx.Selection != nil {
			ctx.Selection.SelectNode(s.ID)
		}
		ctx.emit(EditorEvent{Type: EditorShapeCreated, IDs: []string{s.ID}})
		selectionChanged(ctx)
		Logger().Debug("rectangle created", "id", s.ID, "w", s.W, "h", s.H)
		return Result{Handled: true, NewState: StateIdle, RequestRender: true}

	case EventKeyDown:
		if r.Cancel(ctx) {
			return cancelResult()
		}
	}
	return Result{}
}
