package quill

import (
	"fmt"
	"runtime/debug"
	"sort"
	"time"
)

// Result is what a handler (or middleware) returns for one event.
type Result struct {
	// Handled stops dispatch to lower-priority handlers.
	Handled bool
	// NewState requests a transition; StateUnchanged keeps the current state.
	NewState InteractionState
	// RequestRender asks the paint backend for a new frame.
	RequestRender bool
	// Handler is the name of the handler that produced the result. Set by the
	// dispatcher.
	Handler string
}

// HandleFunc processes one event.
type HandleFunc func(ev *Event, ctx *Context) Result

// Middleware wraps a HandleFunc. It may run code before or after calling
// next, or short-circuit by returning its own Result without calling next.
type Middleware func(ev *Event, ctx *Context, next HandleFunc) Result

// Handler is a prioritized event handler.
type Handler interface {
	Name() string
	Priority() int
	CanHandle(ev *Event, state InteractionState) bool
	Handle(ev *Event, ctx *Context) Result
}

// funcHandler adapts plain functions to Handler.
type funcHandler struct {
	name      string
	priority  int
	canHandle func(ev *Event, state InteractionState) bool
	handle    HandleFunc
}

func (f *funcHandler) Name() string  { return f.name }
func (f *funcHandler) Priority() int { return f.priority }
func (f *funcHandler) CanHandle(ev *Event, state InteractionState) bool {
	return f.canHandle == nil || f.canHandle(ev, state)
}
func (f *funcHandler) Handle(ev *Event, ctx *Context) Result { return f.handle(ev, ctx) }

// NewHandler builds a Handler from functions. A nil canHandle accepts every
// event.
func NewHandler(name string, priority int, canHandle func(*Event, InteractionState) bool, handle HandleFunc) Handler {
	return &funcHandler{name: name, priority: priority, canHandle: canHandle, handle: handle}
}

// RenderSink is the paint backend's render-request signal.
type RenderSink interface {
	RequestRender()
}

// RenderFunc adapts a function to RenderSink.
type RenderFunc func()

// RequestRender calls f.
func (f RenderFunc) RequestRender() { f() }

// ButtonPress is where a button went down and what it landed on.
type ButtonPress struct {
	StartScreen, StartWorld Vec2
	HitID                   string
}

// PointerState tracks the primary pointer across events. The press fields
// describe the primary press: the first button still held.
type PointerState struct {
	// Known is false until the first pointer event is seen.
	Known bool
	// Down is set while any button is held.
	Down bool
	// Button captured at press time.
	Button MouseButton
	// StartScreen and StartWorld are the press position.
	StartScreen, StartWorld Vec2
	// LastScreen and LastWorld are the position before the current event.
	LastScreen, LastWorld Vec2
	// HitID is the shape resolved under the pointer at press time, if any.
	HitID string

	presses map[MouseButton]ButtonPress
}

// Press returns the press data of a held button.
func (p *PointerState) Press(b MouseButton) (ButtonPress, bool) {
	bp, ok := p.presses[b]
	return bp, ok
}

func (p *PointerState) setPrimary(b MouseButton, bp ButtonPress) {
	p.Button = b
	p.StartScreen, p.StartWorld = bp.StartScreen, bp.StartWorld
	p.HitID = bp.HitID
}

// release forgets button b. When it was the primary press, the next held
// button takes over.
func (p *PointerState) release(b MouseButton) {
	delete(p.presses, b)
	p.Down = len(p.presses) > 0
	if b != p.Button {
		return
	}
	p.HitID = ""
	for _, next := range []MouseButton{MouseButtonLeft, MouseButtonRight, MouseButtonMiddle} {
		if bp, ok := p.presses[next]; ok {
			p.setPrimary(next, bp)
			return
		}
	}
}

func (p *PointerState) releaseAll() {
	clear(p.presses)
	p.Down = false
	p.HitID = ""
}

// Context is the per-session state handed to every handler and middleware.
type Context struct {
	Config    Config
	Coords    *CoordinateSystem
	Index     *SpatialIndex
	Hits      *HitTester
	Store     ShapeStore
	Selection SelectionStore

	// Tool is the active tool.
	Tool Tool
	// State is the interaction state at the time the event arrived.
	State InteractionState
	// Pointer is the tracked primary pointer.
	Pointer PointerState

	keysDown map[Key]bool
	store    EventStore
}

// KeyHeld reports whether k is currently held down.
func (c *Context) KeyHeld(k Key) bool {
	return c.keysDown[k]
}

// AllShapes returns every shape in the store, or nil without a store.
func (c *Context) AllShapes() []*Shape {
	if c.Store == nil {
		return nil
	}
	return c.Store.AllNodes()
}

// HitAt returns the best shape under world point p.
func (c *Context) HitAt(p Vec2) (*Shape, bool) {
	if c.Hits == nil || c.Store == nil {
		return nil, false
	}
	id, ok := c.Hits.FindBestAtPoint(p, c.Store.AllNodes())
	if !ok {
		return nil, false
	}
	return c.Store.NodeByID(id)
}

// Shape resolves id in the store. A missing id is not an error: the shape may
// have been deleted between events.
func (c *Context) Shape(id string) (*Shape, bool) {
	if c.Store == nil || id == "" {
		return nil, false
	}
	return c.Store.NodeByID(id)
}

// reindex refreshes the spatial index entry of every given shape.
func (c *Context) reindex(shapes ...*Shape) {
	if c.Index == nil {
		return
	}
	for _, s := range shapes {
		c.Index.Refresh(s)
	}
}

// emit forwards an editor event to the observer, if any.
func (c *Context) emit(e EditorEvent) {
	if c.store == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	c.store.EmitEvent(e)
}

// DispatchStats counts dispatcher activity since creation.
type DispatchStats struct {
	Events             int
	Handled            int
	Faults             int
	Transitions        int
	InvalidTransitions int
	Renders            int
}

// --- Dispatcher ---

type handlerEntry struct {
	handler Handler
	call    HandleFunc
	seq     int
}

// Dispatcher routes normalized events to the highest-priority handler that
// claims them and applies the state transitions they request.
type Dispatcher struct {
	entries     []handlerEntry // sorted by descending priority, then registration
	nextSeq     int
	middlewares []Middleware
	chain       HandleFunc

	ctx   *Context
	state InteractionState
	sink  RenderSink
	stats DispatchStats
}

// NewDispatcher creates a dispatcher in the idle state with no context.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{state: StateIdle}
	d.rebuildChain()
	return d
}

// SetContext attaches the session context. Dispatch is a logged no-op until
// a context is set.
func (d *Dispatcher) SetContext(ctx *Context) {
	if ctx != nil && ctx.keysDown == nil {
		ctx.keysDown = make(map[Key]bool)
	}
	d.ctx = ctx
}

// Context returns the attached context, or nil.
func (d *Dispatcher) Context() *Context {
	return d.ctx
}

// SetRenderSink sets the paint backend notified on render requests.
func (d *Dispatcher) SetRenderSink(sink RenderSink) {
	d.sink = sink
}

// State returns the current interaction state.
func (d *Dispatcher) State() InteractionState {
	return d.state
}

// Stats returns dispatch counters.
func (d *Dispatcher) Stats() DispatchStats {
	return d.stats
}

// Register adds h, replacing any handler with the same name. Optional
// middlewares wrap only this handler, outermost first.
func (d *Dispatcher) Register(h Handler, mws ...Middleware) {
	call := h.Handle
	for i := len(mws) - 1; i >= 0; i-- {
		call = wrap(mws[i], call)
	}
	d.nextSeq++
	entries := make([]handlerEntry, 0, len(d.entries)+1)
	for _, e := range d.entries {
		if e.handler.Name() != h.Name() {
			entries = append(entries, e)
		}
	}
	entries = append(entries, handlerEntry{handler: h, call: call, seq: d.nextSeq})
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].handler.Priority(), entries[j].handler.Priority()
		if pi != pj {
			return pi > pj
		}
		return entries[i].seq < entries[j].seq
	})
	d.entries = entries
}

// Unregister removes the handler with the given name. Reports whether it
// existed.
func (d *Dispatcher) Unregister(name string) bool {
	for i, e := range d.entries {
		if e.handler.Name() == name {
			entries := make([]handlerEntry, 0, len(d.entries)-1)
			entries = append(entries, d.entries[:i]...)
			entries = append(entries, d.entries[i+1:]...)
			d.entries = entries
			return true
		}
	}
	return false
}

// Handlers returns the registered handlers in dispatch order.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.handler
	}
	return out
}

// Handler returns the registered handler with the given name.
func (d *Dispatcher) Handler(name string) (Handler, bool) {
	for _, e := range d.entries {
		if e.handler.Name() == name {
			return e.handler, true
		}
	}
	return nil, false
}

// Use appends dispatch-wide middlewares. The first middleware installed is
// the outermost.
func (d *Dispatcher) Use(mws ...Middleware) {
	d.middlewares = append(d.middlewares, mws...)
	d.rebuildChain()
}

func wrap(mw Middleware, next HandleFunc) HandleFunc {
	return func(ev *Event, ctx *Context) Result {
		return mw(ev, ctx, next)
	}
}

func (d *Dispatcher) rebuildChain() {
	chain := d.dispatchHandlers
	for i := len(d.middlewares) - 1; i >= 0; i-- {
		chain = wrap(d.middlewares[i], chain)
	}
	d.chain = chain
}

// Dispatch processes one event. It never panics: faults inside handlers and
// middlewares are recovered and logged.
func (d *Dispatcher) Dispatch(ev *Event) Result {
	if ev == nil {
		return Result{}
	}
	ctx := d.ctx
	if ctx == nil {
		Logger().Warn("dispatch without context", "event", ev.Kind.String())
		return Result{}
	}
	d.stats.Events++
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	d.before(ev, ctx)
	ctx.State = d.state
	res := d.runChain(ev, ctx)
	if res.Handled {
		d.stats.Handled++
	}
	d.applyTransition(ctx, res)
	if res.RequestRender {
		d.requestRender(ctx)
	}
	d.after(ev, ctx)
	return res
}

// runChain runs the middleware chain, isolating middleware faults.
func (d *Dispatcher) runChain(ev *Event, ctx *Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.Faults++
			Logger().Error("middleware fault",
				"event", ev.Kind.String(), "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			res = Result{}
		}
	}()
	return d.chain(ev, ctx)
}

// dispatchHandlers is the terminal HandleFunc: it walks handlers in priority
// order until one reports Handled.
func (d *Dispatcher) dispatchHandlers(ev *Event, ctx *Context) Result {
	state := ctx.State
	for _, e := range d.entries {
		if !d.canHandle(e.handler, ev, state) {
			continue
		}
		res, ok := d.invoke(e, ev, ctx)
		if !ok {
			continue
		}
		if res.Handled {
			res.Handler = e.handler.Name()
			return res
		}
	}
	return Result{}
}

func (d *Dispatcher) canHandle(h Handler, ev *Event, state InteractionState) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.Faults++
			Logger().Error("handler fault in CanHandle",
				"handler", h.Name(), "event", ev.Kind.String(), "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	return h.CanHandle(ev, state)
}

// invoke calls one handler; ok is false when it panicked.
func (d *Dispatcher) invoke(e handlerEntry, ev *Event, ctx *Context) (res Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.Faults++
			Logger().Error("handler fault",
				"handler", e.handler.Name(), "event", ev.Kind.String(),
				"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			res, ok = Result{}, false
		}
	}()
	return e.call(ev, ctx), true
}

// applyTransition applies a requested state change unconditionally. Changes
// outside the expected adjacency table are counted; ValidateTransitions logs
// them.
func (d *Dispatcher) applyTransition(ctx *Context, res Result) {
	to := res.NewState
	if to == StateUnchanged || to == d.state {
		return
	}
	from := d.state
	if !CanTransition(from, to) {
		d.stats.InvalidTransitions++
	}
	d.state = to
	ctx.State = to
	d.stats.Transitions++
	ctx.emit(EditorEvent{Type: EditorStateChanged, From: from, To: to})
}

// SetState forces the interaction state, e.g. after an external cancel.
func (d *Dispatcher) SetState(s InteractionState) {
	if s == StateUnchanged || s == d.state {
		return
	}
	from := d.state
	d.state = s
	d.stats.Transitions++
	if d.ctx != nil {
		d.ctx.State = s
		d.ctx.emit(EditorEvent{Type: EditorStateChanged, From: from, To: s})
	}
}

// requestRender notifies the render sink once.
func (d *Dispatcher) requestRender(ctx *Context) {
	d.stats.Renders++
	if d.sink != nil {
		d.sink.RequestRender()
	}
	if ctx != nil {
		ctx.emit(EditorEvent{Type: EditorRenderRequested})
	}
}

// before converts coordinates and updates pointer/key tracking ahead of
// handlers.
func (d *Dispatcher) before(ev *Event, ctx *Context) {
	if ctx.Coords != nil {
		ev.World.X, ev.World.Y = ctx.Coords.ScreenToWorld(ev.Screen.X, ev.Screen.Y)
	} else {
		ev.World = ev.Screen
	}

	switch ev.Kind {
	case EventKeyDown:
		ctx.keysDown[ev.Key] = true
	case EventKeyUp:
		delete(ctx.keysDown, ev.Key)
	case EventPointerDown:
		p := &ctx.Pointer
		if !p.Known {
			p.LastScreen, p.LastWorld = ev.Screen, ev.World
		}
		p.Known = true
		bp := ButtonPress{StartScreen: ev.Screen, StartWorld: ev.World}
		if s, ok := ctx.HitAt(ev.World); ok {
			bp.HitID = s.ID
		}
		if p.presses == nil {
			p.presses = make(map[MouseButton]ButtonPress)
		}
		p.presses[ev.Button] = bp
		if !p.Down || ev.Button == p.Button {
			p.setPrimary(ev.Button, bp)
		}
		p.Down = true
	case EventPointerMove, EventPointerUp, EventPointerCancel, EventWheel:
		p := &ctx.Pointer
		if !p.Known {
			p.LastScreen, p.LastWorld = ev.Screen, ev.World
			p.Known = true
		}
	}
}

// after records the pointer position and releases the press.
func (d *Dispatcher) after(ev *Event, ctx *Context) {
	switch ev.Kind {
	case EventPointerDown, EventPointerMove, EventWheel:
		ctx.Pointer.LastScreen, ctx.Pointer.LastWorld = ev.Screen, ev.World
	case EventPointerUp:
		ctx.Pointer.LastScreen, ctx.Pointer.LastWorld = ev.Screen, ev.World
		ctx.Pointer.release(ev.Button)
	case EventPointerCancel:
		ctx.Pointer.LastScreen, ctx.Pointer.LastWorld = ev.Screen, ev.World
		ctx.Pointer.releaseAll()
	}
}
