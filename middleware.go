package quill

import (
	"time"
)

// DebugLog traces every dispatch at debug level: event, state before, the
// handler that claimed it and the resulting transition.
func DebugLog() Middleware {
	return func(ev *Event, ctx *Context, next HandleFunc) Result {
		start := time.Now()
		from := ctx.State
		res := next(ev, ctx)
		Logger().Debug("dispatch",
			"event", ev.Kind.String(),
			"x", ev.World.X, "y", ev.World.Y,
			"state", from.String(),
			"handler", res.Handler,
			"handled", res.Handled,
			"newState", res.NewState.String(),
			"render", res.RequestRender,
			"elapsed", time.Since(start))
		return res
	}
}

// ValidateTransitions logs transitions outside the expected adjacency table.
// The transition is still applied.
func ValidateTransitions() Middleware {
	return func(ev *Event, ctx *Context, next HandleFunc) Result {
		from := ctx.State
		res := next(ev, ctx)
		if res.NewState != StateUnchanged && !CanTransition(from, res.NewState) {
			Logger().Warn("unexpected state transition",
				"from", from.String(), "to", res.NewState.String(),
				"handler", res.Handler, "event", ev.Kind.String())
		}
		return res
	}
}

// RenderThrottle coalesces render requests to at most one per frame interval.
// Requests arriving inside the window are held pending until Flush.
type RenderThrottle struct {
	interval  time.Duration
	last      time.Time
	pending   bool
	coalesced int
	now       func() time.Time
}

// NewRenderThrottle creates a throttle allowing fps renders per second. A
// non-positive fps disables throttling.
func NewRenderThrottle(fps float64) *RenderThrottle {
	t := &RenderThrottle{now: time.Now}
	if fps > 0 {
		t.interval = time.Duration(float64(time.Second) / fps)
	}
	return t
}

// Middleware returns the dispatch middleware that applies the throttle.
func (t *RenderThrottle) Middleware() Middleware {
	return func(ev *Event, ctx *Context, next HandleFunc) Result {
		res := next(ev, ctx)
		if !res.RequestRender || t.interval <= 0 {
			return res
		}
		now := t.now()
		if t.last.IsZero() || now.Sub(t.last) >= t.interval {
			t.last = now
			t.pending = false
			return res
		}
		t.pending = true
		t.coalesced++
		res.RequestRender = false
		return res
	}
}

// Pending reports whether a coalesced request awaits Flush.
func (t *RenderThrottle) Pending() bool {
	return t.pending
}

// Coalesced returns how many requests were held back so far.
func (t *RenderThrottle) Coalesced() int {
	return t.coalesced
}

// Flush consumes the pending request. It reports whether one was pending.
func (t *RenderThrottle) Flush() bool {
	if !t.pending {
		return false
	}
	t.pending = false
	t.last = t.now()
	return true
}

// Action is a command bound to a key by Shortcuts.
type Action func(ev *Event, ctx *Context) Result

// Actions maps action names (as used in a Keymap) to commands.
type Actions map[string]Action

// Shortcuts short-circuits key-down events bound in km. A bound event runs
// its action and never reaches the handlers. Unbound keys, and bindings whose
// action is missing, pass through.
func Shortcuts(km Keymap, actions Actions) Middleware {
	return func(ev *Event, ctx *Context, next HandleFunc) Result {
		if ev.Kind != EventKeyDown {
			return next(ev, ctx)
		}
		name, ok := km.Lookup(ev.Key, ev.Modifiers)
		if !ok {
			return next(ev, ctx)
		}
		action, ok := actions[name]
		if !ok {
			Logger().Debug("shortcut without action", "action", name, "key", ev.Key.String())
			return next(ev, ctx)
		}
		ev.PreventDefault()
		res := action(ev, ctx)
		res.Handled = true
		if res.Handler == "" {
			res.Handler = "shortcut:" + name
		}
		return res
	}
}
