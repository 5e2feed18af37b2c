package quill

import (
	"maps"

	"github.com/tanema/gween/ease"
)

// zoomFitPadding is the screen margin kept around content by ZoomToFit.
const zoomFitPadding = 40

// Editor is one canvas editing session. It owns the view transform, the
// spatial index, the hit tester and the dispatcher with the built-in tools,
// and is driven from the host loop through Dispatch and Update.
type Editor struct {
	cfg Config

	coords     *CoordinateSystem
	index      *SpatialIndex
	hits       *HitTester
	store      ShapeStore
	selection  SelectionStore
	dispatcher *Dispatcher
	throttle   *RenderThrottle
	ctx        *Context

	keymap  Keymap
	actions Actions

	pan       *PanTool
	zoom      *ZoomTool
	resize    *ResizeTool
	drag      *DragTool
	rectangle *RectangleTool
	draw      *DrawTool
	selector  *SelectionTool

	lastVersion uint64
	injectQueue []*Event
	runner      *ScriptRunner
	input       inputState
}

// NewEditor creates a session. A nil store or selection is replaced by an
// in-memory one.
func NewEditor(cfg Config, store ShapeStore, selection SelectionStore) *Editor {
	if store == nil {
		store = NewMemoryStore()
	}
	if selection == nil {
		selection = NewSelection()
	}
	e := &Editor{
		cfg:       cfg,
		store:     store,
		selection: selection,
		keymap:    DefaultKeymap(),
		pan:       NewPanTool(),
		zoom:      NewZoomTool(),
		resize:    NewResizeTool(),
		drag:      NewDragTool(),
		rectangle: NewRectangleTool(),
		draw:      NewDrawTool(),
		selector:  NewSelectionTool(),
	}
	e.coords = NewCoordinateSystem(
		Rect{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		cfg.MinScale, cfg.MaxScale)
	e.index = NewSpatialIndex(store, spatialOptionsFromConfig(cfg))
	e.hits = NewHitTester(e.index)
	e.throttle = NewRenderThrottle(cfg.RenderFPS)

	e.ctx = &Context{
		Config:    cfg,
		Coords:    e.coords,
		Index:     e.index,
		Hits:      e.hits,
		Store:     store,
		Selection: selection,
		Tool:      ToolSelect,
	}
	e.dispatcher = NewDispatcher()
	e.dispatcher.SetContext(e.ctx)
	for _, h := range []Handler{e.pan, e.zoom, e.resize, e.drag, e.rectangle, e.draw, e.selector} {
		e.dispatcher.Register(h)
	}

	e.actions = e.defaultActions()
	if cfg.Debug {
		e.dispatcher.Use(DebugLog())
	}
	e.dispatcher.Use(
		ValidateTransitions(),
		e.throttle.Middleware(),
		Shortcuts(e.keymap, e.actions),
	)

	e.index.UpdateViewport(e.coords.VisibleBounds(), e.coords.Scale())
	e.lastVersion = e.coords.Version()
	return e
}

// --- Accessors ---

// Config returns the session configuration.
func (e *Editor) Config() Config { return e.cfg }

// Coords returns the view transform.
func (e *Editor) Coords() *CoordinateSystem { return e.coords }

// Index returns the spatial index.
func (e *Editor) Index() *SpatialIndex { return e.index }

// Hits returns the hit tester.
func (e *Editor) Hits() *HitTester { return e.hits }

// Store returns the shape store.
func (e *Editor) Store() ShapeStore { return e.store }

// Selection returns the selection store.
func (e *Editor) Selection() SelectionStore { return e.selection }

// Dispatcher returns the event dispatcher, e.g. to register extra handlers.
func (e *Editor) Dispatcher() *Dispatcher { return e.dispatcher }

// Throttle returns the render throttle.
func (e *Editor) Throttle() *RenderThrottle { return e.throttle }

// State returns the current interaction state.
func (e *Editor) State() InteractionState { return e.dispatcher.State() }

// Stats returns dispatcher counters.
func (e *Editor) Stats() DispatchStats { return e.dispatcher.Stats() }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.ctx.Tool }

// Marquee returns the marquee rectangle in world space while one is dragged.
func (e *Editor) Marquee() (Rect, bool) { return e.selector.Marquee() }

// HoverID returns the shape under the idle pointer, if any.
func (e *Editor) HoverID() string { return e.selector.HoverID() }

// --- Wiring ---

// SetRenderSink sets the paint backend notified on render requests.
func (e *Editor) SetRenderSink(sink RenderSink) {
	e.dispatcher.SetRenderSink(sink)
}

// SetEventStore sets the observers receiving editor events. Passing none
// detaches the current observer.
func (e *Editor) SetEventStore(stores ...EventStore) {
	switch len(stores) {
	case 0:
		e.ctx.store = nil
	case 1:
		e.ctx.store = stores[0]
	default:
		e.ctx.store = multiStore(stores)
	}
}

// SetKeymap replaces the shortcut bindings.
func (e *Editor) SetKeymap(km Keymap) {
	clear(e.keymap)
	maps.Copy(e.keymap, km)
}

// Keymap returns the active bindings.
func (e *Editor) Keymap() Keymap { return e.keymap }

// SetAction binds name to a custom action, replacing any built-in one.
func (e *Editor) SetAction(name string, a Action) {
	e.actions[name] = a
}

// SetViewport resizes the canvas area in screen pixels. The spatial index is
// rebuilt for the new area immediately.
func (e *Editor) SetViewport(vp Rect) {
	e.coords.SetViewport(vp)
	e.index.Rebuild(e.coords.VisibleBounds(), e.coords.Scale())
}

// --- Driving ---

// Dispatch processes one input event.
func (e *Editor) Dispatch(ev *Event) Result {
	return e.dispatcher.Dispatch(ev)
}

// Update advances one frame of dt seconds: it steps view animations, keeps
// the spatial index in line with the viewport, flushes a coalesced render
// request and dispatches one injected event.
func (e *Editor) Update(dt float32) {
	if e.coords.Update(dt) {
		e.dispatcher.requestRender(e.ctx)
	}
	if v := e.coords.Version(); v != e.lastVersion {
		e.lastVersion = v
		e.index.UpdateViewport(e.coords.VisibleBounds(), e.coords.Scale())
	}
	if e.throttle.Flush() {
		e.dispatcher.requestRender(e.ctx)
	}
	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInjectedInput()
}

// SetTool switches tools. Any gesture in progress is canceled.
func (e *Editor) SetTool(t Tool) {
	if t == e.ctx.Tool {
		return
	}
	e.CancelGesture()
	e.ctx.Tool = t
	e.dispatcher.SetState(StateIdle)
	e.ctx.emit(EditorEvent{Type: EditorToolChanged, Tool: t})
	Logger().Debug("tool changed", "tool", t.String())
}

// CancelGesture aborts every in-flight gesture, restoring affected shapes.
// Reports whether anything was canceled.
func (e *Editor) CancelGesture() bool {
	canceled := false
	for _, h := range e.dispatcher.Handlers() {
		if c, ok := h.(Canceler); ok && c.Active() {
			canceled = c.Cancel(e.ctx) || canceled
		}
	}
	if canceled {
		e.dispatcher.SetState(StateIdle)
		e.dispatcher.requestRender(e.ctx)
	}
	return canceled
}

// --- Document operations ---

// AddShape inserts s, assigning an id when empty, and indexes it.
func (e *Editor) AddShape(s *Shape) {
	if s == nil {
		return
	}
	if s.ID == "" {
		s.ID = NewShapeID(s.Kind)
	}
	e.store.AddNode(s)
	e.index.Refresh(s)
	e.ctx.emit(EditorEvent{Type: EditorShapeCreated, IDs: []string{s.ID}})
}

// RemoveShapes deletes the given shapes from the store, the index and the
// selection. Unknown ids are ignored. Returns the ids actually removed.
func (e *Editor) RemoveShapes(ids ...string) []string {
	var removed []string
	for _, id := range ids {
		if !e.store.RemoveNode(id) {
			continue
		}
		e.index.Remove(id)
		removed = append(removed, id)
	}
	if len(removed) == 0 {
		return nil
	}
	pruneSelection(e.selection, e.store)
	e.ctx.emit(EditorEvent{Type: EditorShapesDeleted, IDs: removed})
	return removed
}

// DeleteSelection removes every selected shape.
func (e *Editor) DeleteSelection() []string {
	removed := e.RemoveShapes(e.selection.SelectedIDs()...)
	if len(removed) > 0 {
		selectionChanged(e.ctx)
	}
	return removed
}

// SelectAll selects every shape in painter order.
func (e *Editor) SelectAll() {
	e.selection.ClearSelection()
	for _, s := range e.store.AllNodes() {
		e.selection.AddToSelection(s.ID)
	}
	selectionChanged(e.ctx)
}

// Reindex rebuilds the spatial index for the current view, e.g. after the
// store was modified behind the editor's back.
func (e *Editor) Reindex() {
	e.index.Rebuild(e.coords.VisibleBounds(), e.coords.Scale())
}

// contentBounds returns the union of the selected shapes' bounds, or of every
// shape when nothing is selected.
func (e *Editor) contentBounds() (Rect, bool) {
	var shapes []*Shape
	for _, id := range e.selection.SelectedIDs() {
		if s, ok := e.store.NodeByID(id); ok {
			shapes = append(shapes, s)
		}
	}
	if len(shapes) == 0 {
		shapes = e.store.AllNodes()
	}
	if len(shapes) == 0 {
		return Rect{}, false
	}
	r := shapes[0].Bounds()
	for _, s := range shapes[1:] {
		r = r.Union(s.Bounds())
	}
	return r, true
}

// ZoomToFit frames the selection, or all content, over duration seconds.
func (e *Editor) ZoomToFit(duration float32) bool {
	r, ok := e.contentBounds()
	if !ok {
		return false
	}
	e.coords.FitRect(r, zoomFitPadding, duration, ease.InOutQuad)
	return true
}

func (e *Editor) defaultActions() Actions {
	tool := func(t Tool) Action {
		return func(*Event, *Context) Result {
			e.SetTool(t)
			return Result{RequestRender: true}
		}
	}
	return Actions{
		ActionToolSelect:    tool(ToolSelect),
		ActionToolHand:      tool(ToolHand),
		ActionToolRectangle: tool(ToolRectangle),
		ActionToolDraw:      tool(ToolDraw),
		ActionDelete: func(*Event, *Context) Result {
			return Result{RequestRender: len(e.DeleteSelection()) > 0}
		},
		ActionSelectAll: func(*Event, *Context) Result {
			e.SelectAll()
			return Result{RequestRender: true}
		},
		ActionCancel: func(*Event, *Context) Result {
			if e.CancelGesture() {
				return Result{}
			}
			if len(e.selection.SelectedIDs()) == 0 {
				return Result{}
			}
			e.selection.ClearSelection()
			selectionChanged(e.ctx)
			return Result{RequestRender: true}
		},
		ActionZoomFit: func(*Event, *Context) Result {
			e.ZoomToFit(0.25)
			return Result{}
		},
	}
}
