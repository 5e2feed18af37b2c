package quill

import "math"

// zoomEpsilon is the scale change below which a zoom is a no-op.
const zoomEpsilon = 0.001

// ZoomTool zooms the view from wheel, pinch and Ctrl+= / Ctrl+- / Ctrl+0,
// keeping the world point under the anchor fixed.
type ZoomTool struct{}

// NewZoomTool creates the zoom handler.
func NewZoomTool() *ZoomTool { return &ZoomTool{} }

func (z *ZoomTool) Name() string  { return HandlerZoom }
func (z *ZoomTool) Priority() int { return PriorityZoom }

func (z *ZoomTool) CanHandle(ev *Event, state InteractionState) bool {
	switch ev.Kind {
	case EventWheel, EventPinch:
		return true
	case EventKeyDown:
		if ev.Modifiers&(ModCtrl|ModMeta) == 0 {
			return false
		}
		return ev.Key == KeyEqual || ev.Key == KeyMinus || ev.Key == Key0
	}
	return false
}

// anchor picks the screen point that must stay fixed: the event position for
// wheel and pinch, else the last known pointer, else the viewport center.
func (z *ZoomTool) anchor(ev *Event, ctx *Context) Vec2 {
	switch ev.Kind {
	case EventWheel:
		return ev.Screen
	case EventPinch:
		return Vec2{ev.Pinch.CenterX, ev.Pinch.CenterY}
	}
	if ctx.Pointer.Known {
		return ctx.Pointer.LastScreen
	}
	return ctx.Coords.ViewportCenter()
}

// target computes the requested scale for ev.
func (z *ZoomTool) target(ev *Event, ctx *Context, current float64) float64 {
	switch ev.Kind {
	case EventWheel:
		return current * math.Exp(-ev.Wheel.DeltaY*ctx.Config.WheelZoomSpeed)
	case EventPinch:
		return current * (1 + ev.Pinch.ScaleDelta)
	}
	factor := ctx.Config.KeyZoomFactor
	if factor <= 1 {
		factor = DefaultConfig().KeyZoomFactor
	}
	switch ev.Key {
	case KeyEqual:
		return current * factor
	case KeyMinus:
		return current / factor
	default:
		return 1
	}
}

func (z *ZoomTool) Handle(ev *Event, ctx *Context) Result {
	if ctx.Coords == nil {
		return Result{}
	}
	ev.PreventDefault()
	current := ctx.Coords.Scale()
	next := ctx.Coords.clampScale(z.target(ev, ctx, current))
	if math.Abs(next-current) < zoomEpsilon {
		return Result{Handled: true}
	}
	a := z.anchor(ev, ctx)
	ctx.Coords.StopAnimation()
	ctx.Coords.UpdateScaleAt(next, a.X, a.Y)
	return Result{Handled: true, RequestRender: true}
}
