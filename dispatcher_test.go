package quill

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

func newTestDispatcher() (*Dispatcher, *Context) {
	d := NewDispatcher()
	ctx := &Context{Config: DefaultConfig()}
	d.SetContext(ctx)
	return d, ctx
}

// recordingHandler appends its name to calls and returns res.
func recordingHandler(name string, priority int, calls *[]string, res Result) Handler {
	return NewHandler(name, priority, nil, func(*Event, *Context) Result {
		*calls = append(*calls, name)
		return res
	})
}

// captureLogs routes the package logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDispatcherPriorityOrder(t *testing.T) {
	d, _ := newTestDispatcher()
	var calls []string
	d.Register(recordingHandler("low", 10, &calls, Result{}))
	d.Register(recordingHandler("high", 100, &calls, Result{}))
	d.Register(recordingHandler("mid-1", 50, &calls, Result{}))
	d.Register(recordingHandler("mid-2", 50, &calls, Result{}))

	d.Dispatch(PointerMove(0, 0, 0))
	want := []string{"high", "mid-1", "mid-2", "low"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestDispatcherStopsAtHandled(t *testing.T) {
	d, _ := newTestDispatcher()
	var calls []string
	d.Register(recordingHandler("first", 20, &calls, Result{Handled: true}))
	d.Register(recordingHandler("second", 10, &calls, Result{Handled: true}))

	res := d.Dispatch(PointerMove(0, 0, 0))
	if !slices.Equal(calls, []string{"first"}) {
		t.Errorf("calls = %v, want [first]", calls)
	}
	if !res.Handled || res.Handler != "first" {
		t.Errorf("Result = %+v, want handled by first", res)
	}
	if st := d.Stats(); st.Events != 1 || st.Handled != 1 {
		t.Errorf("Stats = %+v, want 1 event handled", st)
	}
}

func TestDispatcherCanHandleFilters(t *testing.T) {
	d, _ := newTestDispatcher()
	var calls []string
	d.Register(NewHandler("keys", 100, func(ev *Event, _ InteractionState) bool {
		return ev.Kind == EventKeyDown
	}, func(*Event, *Context) Result {
		calls = append(calls, "keys")
		return Result{Handled: true}
	}))
	d.Register(recordingHandler("all", 1, &calls, Result{Handled: true}))

	d.Dispatch(PointerDown(0, 0, MouseButtonLeft, 0))
	d.Dispatch(KeyDown(KeyV, 0))
	if want := []string{"all", "keys"}; !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestDispatcherRegisterReplacesByName(t *testing.T) {
	d, _ := newTestDispatcher()
	var calls []string
	d.Register(recordingHandler("tool", 10, &calls, Result{Handled: true}))
	d.Register(recordingHandler("tool", 10, &calls, Result{Handled: true}))
	if n := len(d.Handlers()); n != 1 {
		t.Fatalf("len(Handlers) = %d, want 1", n)
	}

	var replaced bool
	d.Register(NewHandler("tool", 10, nil, func(*Event, *Context) Result {
		replaced = true
		return Result{Handled: true}
	}))
	d.Dispatch(PointerMove(0, 0, 0))
	if !replaced || len(calls) != 0 {
		t.Errorf("replaced = %v, calls = %v, want only the new handler", replaced, calls)
	}
	if _, ok := d.Handler("tool"); !ok {
		t.Error("Handler(tool) not found")
	}
}

func TestDispatcherUnregister(t *testing.T) {
	d, _ := newTestDispatcher()
	var calls []string
	d.Register(recordingHandler("a", 10, &calls, Result{Handled: true}))
	if !d.Unregister("a") {
		t.Fatal("Unregister(a) = false")
	}
	if d.Unregister("a") {
		t.Error("second Unregister(a) = true")
	}
	d.Dispatch(PointerMove(0, 0, 0))
	if len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestDispatcherFaultIsolation(t *testing.T) {
	logs := captureLogs(t)
	d, _ := newTestDispatcher()
	var calls []string
	d.Register(NewHandler("boom", 100, nil, func(*Event, *Context) Result {
		panic("handler exploded")
	}))
	d.Register(NewHandler("bad-filter", 90, func(*Event, InteractionState) bool {
		panic("filter exploded")
	}, func(*Event, *Context) Result {
		calls = append(calls, "bad-filter")
		return Result{Handled: true}
	}))
	d.Register(recordingHandler("fallback", 10, &calls, Result{Handled: true}))

	res := d.Dispatch(PointerMove(0, 0, 0))
	if !res.Handled || res.Handler != "fallback" {
		t.Errorf("Result = %+v, want handled by fallback", res)
	}
	if !slices.Equal(calls, []string{"fallback"}) {
		t.Errorf("calls = %v, want [fallback]", calls)
	}
	if got := d.Stats().Faults; got != 2 {
		t.Errorf("Faults = %d, want 2", got)
	}
	if !strings.Contains(logs.String(), "handler exploded") {
		t.Errorf("log output missing panic value: %s", logs.String())
	}

	// The pipeline keeps working for later events.
	if res := d.Dispatch(PointerMove(1, 1, 0)); !res.Handled {
		t.Error("second dispatch not handled")
	}
}

func TestDispatcherMiddlewareFault(t *testing.T) {
	captureLogs(t)
	d, _ := newTestDispatcher()
	d.Use(func(*Event, *Context, HandleFunc) Result { panic("middleware exploded") })
	res := d.Dispatch(PointerMove(0, 0, 0))
	if res.Handled {
		t.Errorf("Result = %+v, want zero", res)
	}
	if got := d.Stats().Faults; got != 1 {
		t.Errorf("Faults = %d, want 1", got)
	}
}

func TestDispatcherMissingContext(t *testing.T) {
	logs := captureLogs(t)
	d := NewDispatcher()
	var calls []string
	d.Register(recordingHandler("a", 10, &calls, Result{Handled: true}))

	res := d.Dispatch(PointerMove(0, 0, 0))
	if res.Handled || len(calls) != 0 {
		t.Errorf("Result = %+v, calls = %v, want no-op", res, calls)
	}
	if d.Stats().Events != 0 {
		t.Errorf("Events = %d, want 0", d.Stats().Events)
	}
	if !strings.Contains(logs.String(), "dispatch without context") {
		t.Errorf("missing warning in logs: %s", logs.String())
	}
	if res := d.Dispatch(nil); res.Handled {
		t.Error("Dispatch(nil) handled")
	}
}

func TestDispatcherTransitionsAreAdvisory(t *testing.T) {
	logs := captureLogs(t)
	d, ctx := newTestDispatcher()
	rec := &EventRecorder{}
	ctx.store = rec
	d.Use(ValidateTransitions())
	d.Register(recordingHandler("jump", 10, new([]string), Result{Handled: true, NewState: StateDragging}))

	d.Dispatch(PointerMove(0, 0, 0))
	if d.State() != StateDragging {
		t.Errorf("State = %v, want dragging", d.State())
	}
	st := d.Stats()
	if st.Transitions != 1 || st.InvalidTransitions != 1 {
		t.Errorf("Stats = %+v, want 1 invalid transition", st)
	}
	if !strings.Contains(logs.String(), "unexpected state transition") {
		t.Errorf("missing warning in logs: %s", logs.String())
	}
	evs := rec.OfType(EditorStateChanged)
	if len(evs) != 1 || evs[0].From != StateIdle || evs[0].To != StateDragging {
		t.Errorf("state events = %+v, want idle -> dragging", evs)
	}

	// Same state again: no transition.
	d.Dispatch(PointerMove(0, 0, 0))
	if got := d.Stats().Transitions; got != 1 {
		t.Errorf("Transitions = %d, want 1", got)
	}
}

func TestDispatcherValidTransitionNotLogged(t *testing.T) {
	logs := captureLogs(t)
	d, _ := newTestDispatcher()
	d.Use(ValidateTransitions())
	d.Register(recordingHandler("select", 10, new([]string), Result{Handled: true, NewState: StateSelecting}))
	d.Dispatch(PointerDown(0, 0, MouseButtonLeft, 0))
	if strings.Contains(logs.String(), "unexpected state transition") {
		t.Errorf("valid transition logged: %s", logs.String())
	}
	if d.Stats().InvalidTransitions != 0 {
		t.Error("valid transition counted as invalid")
	}
}

func TestDispatcherRenderRequest(t *testing.T) {
	d, _ := newTestDispatcher()
	renders := 0
	d.SetRenderSink(RenderFunc(func() { renders++ }))
	d.Register(recordingHandler("paint", 10, new([]string), Result{Handled: true, RequestRender: true}))

	d.Dispatch(PointerMove(0, 0, 0))
	d.Dispatch(PointerMove(1, 0, 0))
	if renders != 2 || d.Stats().Renders != 2 {
		t.Errorf("renders = %d, Stats.Renders = %d, want 2", renders, d.Stats().Renders)
	}
}

func TestDispatcherMiddlewareOrder(t *testing.T) {
	d, _ := newTestDispatcher()
	var calls []string
	mw := func(name string) Middleware {
		return func(ev *Event, ctx *Context, next HandleFunc) Result {
			calls = append(calls, name+">")
			res := next(ev, ctx)
			calls = append(calls, "<"+name)
			return res
		}
	}
	d.Use(mw("outer"), mw("inner"))
	d.Register(recordingHandler("h", 10, &calls, Result{Handled: true}), mw("own"))

	d.Dispatch(PointerMove(0, 0, 0))
	want := []string{"outer>", "inner>", "own>", "h", "<own", "<inner", "<outer"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestDispatcherWorldCoordinates(t *testing.T) {
	d, ctx := newTestDispatcher()
	ctx.Coords = newTestCoords()
	ctx.Coords.SetTransform(ViewTransform{Scale: 2, TranslateX: 100, TranslateY: 50})

	var world Vec2
	d.Register(NewHandler("probe", 10, nil, func(ev *Event, _ *Context) Result {
		world = ev.World
		return Result{Handled: true}
	}))
	d.Dispatch(PointerMove(300, 250, 0))
	if !approxEqual(world.X, 100, epsilon) || !approxEqual(world.Y, 100, epsilon) {
		t.Errorf("World = %v, want {100 100}", world)
	}
}

func TestDispatcherPointerTracking(t *testing.T) {
	d, ctx := newTestDispatcher()
	var seen []PointerState
	d.Register(NewHandler("probe", 10, nil, func(_ *Event, c *Context) Result {
		seen = append(seen, c.Pointer)
		return Result{}
	}))

	d.Dispatch(PointerDown(10, 20, MouseButtonRight, 0))
	d.Dispatch(PointerMove(15, 25, 0))
	d.Dispatch(PointerUp(15, 25, MouseButtonRight, 0))

	if !seen[0].Down || seen[0].Button != MouseButtonRight || seen[0].StartScreen != (Vec2{10, 20}) {
		t.Errorf("on press Pointer = %+v", seen[0])
	}
	if seen[1].LastScreen != (Vec2{10, 20}) {
		t.Errorf("on move LastScreen = %v, want {10 20}", seen[1].LastScreen)
	}
	if ctx.Pointer.Down || ctx.Pointer.LastScreen != (Vec2{15, 25}) {
		t.Errorf("after release Pointer = %+v", ctx.Pointer)
	}
}

func TestDispatcherKeyTracking(t *testing.T) {
	d, ctx := newTestDispatcher()
	d.Dispatch(KeyDown(KeySpace, 0))
	if !ctx.KeyHeld(KeySpace) {
		t.Error("KeyHeld(space) = false after key down")
	}
	d.Dispatch(KeyUp(KeySpace, 0))
	if ctx.KeyHeld(KeySpace) {
		t.Error("KeyHeld(space) = true after key up")
	}
}

func TestRenderThrottle(t *testing.T) {
	clock := newFakeClock()
	th := NewRenderThrottle(10)
	th.now = clock.now
	mw := th.Middleware()
	ctx := &Context{}
	render := func(*Event, *Context) Result { return Result{Handled: true, RequestRender: true} }

	if res := mw(PointerMove(0, 0, 0), ctx, render); !res.RequestRender {
		t.Fatal("first request was held back")
	}
	clock.advance(20 * time.Millisecond)
	if res := mw(PointerMove(0, 0, 0), ctx, render); res.RequestRender {
		t.Error("request inside the window passed through")
	}
	if res := mw(PointerMove(0, 0, 0), ctx, render); res.RequestRender {
		t.Error("request inside the window passed through")
	}
	if !th.Pending() || th.Coalesced() != 2 {
		t.Errorf("Pending = %v, Coalesced = %d, want true, 2", th.Pending(), th.Coalesced())
	}
	if !th.Flush() {
		t.Error("Flush = false with a pending request")
	}
	if th.Flush() {
		t.Error("second Flush = true")
	}

	clock.advance(150 * time.Millisecond)
	if res := mw(PointerMove(0, 0, 0), ctx, render); !res.RequestRender {
		t.Error("request after the window was held back")
	}
}

func TestRenderThrottleDisabled(t *testing.T) {
	th := NewRenderThrottle(0)
	mw := th.Middleware()
	render := func(*Event, *Context) Result { return Result{RequestRender: true} }
	for i := 0; i < 3; i++ {
		if res := mw(PointerMove(0, 0, 0), &Context{}, render); !res.RequestRender {
			t.Fatal("disabled throttle held a request")
		}
	}
}

func TestShortcutsMiddleware(t *testing.T) {
	d, _ := newTestDispatcher()
	var ran []string
	km := Keymap{{Key: KeyV}: "pick", {Key: KeyH}: "unbound-action"}
	d.Use(Shortcuts(km, Actions{
		"pick": func(*Event, *Context) Result {
			ran = append(ran, "pick")
			return Result{RequestRender: true}
		},
	}))
	var calls []string
	d.Register(recordingHandler("fallback", 1, &calls, Result{Handled: true}))

	ev := KeyDown(KeyV, 0)
	res := d.Dispatch(ev)
	if !res.Handled || res.Handler != "shortcut:pick" || !ev.DefaultPrevented() {
		t.Errorf("Result = %+v, prevented = %v", res, ev.DefaultPrevented())
	}
	if !slices.Equal(ran, []string{"pick"}) || len(calls) != 0 {
		t.Errorf("ran = %v, calls = %v, want only the action", ran, calls)
	}

	// Bound key without an action, unbound keys and other events pass through.
	d.Dispatch(KeyDown(KeyH, 0))
	d.Dispatch(KeyDown(KeyR, 0))
	d.Dispatch(KeyUp(KeyV, 0))
	if len(calls) != 3 {
		t.Errorf("calls = %v, want 3 pass-throughs", calls)
	}
}
