// Package quill is the interaction core of a 2D canvas editor for
// [Ebitengine] and headless hosts.
//
// Quill owns the view transform (pan and zoom), a viewport-adaptive spatial
// index over shape geometry, a priority-based hit tester that resolves the
// shape the user most likely meant, and an event dispatcher that drives the
// built-in tools: select, marquee, drag, resize, pan, zoom, rectangle and
// freehand draw. Painting, document persistence and UI panels live outside
// the package and talk to it through small interfaces.
//
// # Quick start
//
// Create an [Editor] with a [Config], feed it events, and call
// [Editor.Update] once per frame:
//
//	store := quill.NewMemoryStore(&quill.Shape{ID: "a", W: 100, H: 100})
//	ed := quill.NewEditor(quill.DefaultConfig(), store, nil)
//	ed.SetRenderSink(quill.RenderFunc(func() { dirty = true }))
//
//	ed.Dispatch(quill.PointerDown(50, 50, quill.MouseButtonLeft, 0))
//	ed.Dispatch(quill.PointerUp(50, 50, quill.MouseButtonLeft, 0))
//
// Inside an [ebiten.Game], call [Editor.PollInput] and [Editor.Update] from
// Update, and paint the store from Draw using [CoordinateSystem.WorldToScreen].
//
// # Coordinates
//
// Events carry screen coordinates. The [Dispatcher] fills in world
// coordinates through the editor's [CoordinateSystem] before any handler
// runs, so tools only ever reason in world space. Zoom keeps the world point
// under the anchor fixed and is clamped to [Config.MinScale] and
// [Config.MaxScale].
//
// # Hit testing
//
// [HitTester.FindBestAtPoint] scores every shape containing the point by
// kind, size, distance to center and edge proximity, so small or precise
// targets win over large containers underneath them.
// [HitTester.FindInRectangle] backs marquee selection. Both narrow their
// candidates through the [SpatialIndex] when it covers the query.
//
// # Dispatch
//
// Handlers implement [Handler] and are tried in descending priority until
// one reports Handled. Middlewares installed with [Dispatcher.Use] wrap the
// whole pipeline; see [DebugLog], [ValidateTransitions], [RenderThrottle] and
// [Shortcuts]. A panicking handler is recovered and logged, and dispatch
// continues with the next one.
//
// # Logging
//
// The package is silent by default. Install a logger with [SetLogger]:
//
//	quill.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
//
// # Observers
//
// [Editor.SetEventStore] forwards [EditorEvent] values (state changes,
// selection changes, created, moved and deleted shapes) to an [EventStore].
// The quill/ecs module publishes them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package quill
