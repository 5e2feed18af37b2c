package quill

// Handler names and priorities of the built-in tools.
const (
	HandlerPan       = "pan"
	HandlerZoom      = "zoom"
	HandlerResize    = "resize"
	HandlerDrag      = "drag"
	HandlerRectangle = "rectangle"
	HandlerDraw      = "draw"
	HandlerSelection = "selection"

	PriorityPan       = 100
	PriorityZoom      = 90
	PriorityResize    = 85
	PriorityDrag      = 80
	PriorityRectangle = 60
	PriorityDraw      = 60
	PrioritySelection = 50
)

// Canceler is implemented by handlers that own an in-flight gesture.
type Canceler interface {
	// Active reports whether a gesture is in progress.
	Active() bool
	// Cancel aborts the gesture, undoing its effects. It reports whether a
	// gesture was canceled.
	Cancel(ctx *Context) bool
}

// DefaultHandlers returns one instance of every built-in tool handler.
func DefaultHandlers() []Handler {
	return []Handler{
		NewPanTool(),
		NewZoomTool(),
		NewResizeTool(),
		NewDragTool(),
		NewRectangleTool(),
		NewDrawTool(),
		NewSelectionTool(),
	}
}

// isEscape reports whether ev is an Escape key press.
func isEscape(ev *Event) bool {
	return ev.Kind == EventKeyDown && ev.Key == KeyEscape
}

// isRelease reports whether ev ends a pointer sequence.
func isRelease(ev *Event) bool {
	return ev.Kind == EventPointerUp || ev.Kind == EventPointerCancel
}

// isReleaseOf reports whether ev ends a gesture started with button b. The
// release of any other button belongs to someone else.
func isReleaseOf(ev *Event, b MouseButton) bool {
	return ev.Kind == EventPointerCancel || (ev.Kind == EventPointerUp && ev.Button == b)
}

// cancelResult is the outcome of an Escape that aborted a gesture.
func cancelResult() Result {
	return Result{Handled: true, NewState: StateIdle, RequestRender: true}
}

// selectionChanged reports the current selection to the observer.
func selectionChanged(ctx *Context) {
	if ctx.Selection == nil {
		return
	}
	ctx.emit(EditorEvent{Type: EditorSelectionChanged, IDs: ctx.Selection.SelectedIDs()})
}
