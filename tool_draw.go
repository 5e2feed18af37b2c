package quill

import "math"

// DrawTool records freehand paths. Points closer than MinPointSpacing to the
// previous one are skipped; on release the path is simplified.
type DrawTool struct {
	g *Gesture
}

// NewDrawTool creates the freehand handler.
func NewDrawTool() *DrawTool { return &DrawTool{} }

func (d *DrawTool) Name() string  { return HandlerDraw }
func (d *DrawTool) Priority() int { return PriorityDraw }

func (d *DrawTool) CanHandle(ev *Event, state InteractionState) bool {
	if d.g != nil {
		return ev.Kind == EventPointerMove || isReleaseOf(ev, MouseButtonLeft) || isEscape(ev)
	}
	return ev.Kind == EventPointerDown && ev.Button == MouseButtonLeft
}

// Active reports whether a path is being drawn.
func (d *DrawTool) Active() bool { return d.g != nil }

// Cancel removes the path being drawn.
func (d *DrawTool) Cancel(ctx *Context) bool {
	if d.g == nil {
		return false
	}
	d.g.Cancel(ctx)
	d.g = nil
	return true
}

// appendPoint adds world point p to the path if it is farther than spacing
// from the last point. Reports whether the point was kept.
func appendPoint(s *Shape, p Vec2, spacing float64) bool {
	local := Vec2{p.X - s.X, p.Y - s.Y}
	if n := len(s.Points); n > 0 && local.Dist(s.Points[n-1]) <= spacing {
		return false
	}
	s.Points = append(s.Points, local)
	s.fitPoints()
	return true
}

func (d *DrawTool) Handle(ev *Event, ctx *Context) Result {
	switch ev.Kind {
	case EventPointerDown:
		if ctx.Tool != ToolDraw || ctx.Store == nil {
			return Result{}
		}
		d.g = newGesture(ev.World)
		s := &Shape{ID: NewShapeID(ShapePath), Kind: ShapePath, X: ev.World.X, Y: ev.World.Y, Points: []Vec2{{}}}
		ctx.Store.AddNode(s)
		ctx.reindex(s)
		d.g.Created = s.ID
		return Result{Handled: true, NewState: StateDrawing, RequestRender: true}

	case EventPointerMove:
		s, ok := ctx.Shape(d.g.Created)
		if !ok {
			d.g = nil
			return Result{Handled: true, NewState: StateIdle}
		}
		d.g.Last = ev.World
		d.g.exceeds(ev.World, ctx.Config.DragThreshold)
		if !appendPoint(s, ev.World, ctx.Config.MinPointSpacing) {
			return Result{Handled: true}
		}
		ctx.reindex(s)
		return Result{Handled: true, RequestRender: true}

	case EventPointerCancel:
		d.Cancel(ctx)
		return cancelResult()

	case EventPointerUp:
		g := d.g
		d.g = nil
		s, ok := ctx.Shape(g.Created)
		if !ok {
			return Result{Handled: true, NewState: StateIdle}
		}
		appendPoint(s, ev.World, ctx.Config.MinPointSpacing)
		s.Points = simplifyPath(s.Points, ctx.Config.SimplifyTolerance)
		s.fitPoints()
		ctx.reindex(s)
		g.Commit()
		ctx.emit(EditorEvent{Type: EditorShapeCreated, IDs: []string{s.ID}})
		Logger().Debug("path created", "id", s.ID, "points", len(s.Points))
		return Result{Handled: true, NewState: StateIdle, RequestRender: true}

	case EventKeyDown:
		if d.Cancel(ctx) {
			return cancelResult()
		}
	}
	return Result{}
}

// simplifyPath drops interior points lying within tolerance of the segment
// joining the previous kept point and the next point. The endpoints are
// always kept.
func simplifyPath(pts []Vec2, tolerance float64) []Vec2 {
	if len(pts) < 3 || tolerance <= 0 {
		return pts
	}
	out := make([]Vec2, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts)-1; i++ {
		if segmentDistance(pts[i], out[len(out)-1], pts[i+1]) > tolerance {
			out = append(out, pts[i])
		}
	}
	return append(out, pts[len(pts)-1])
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Vec2{a.X + t*ab.X, a.Y + t*ab.Y})
}
