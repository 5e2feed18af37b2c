package quill

import (
	"slices"
	"testing"
)

func gestureContext(shapes ...*Shape) (*Context, *EventRecorder) {
	store := NewMemoryStore(shapes...)
	rec := &EventRecorder{}
	ctx := &Context{Config: DefaultConfig(), Store: store, Selection: NewSelection(), store: rec}
	return ctx, rec
}

func TestGestureExceeds(t *testing.T) {
	g := newGesture(Vec2{0, 0})
	if g.exceeds(Vec2{3, 0}, 3) {
		t.Error("exceeds at exactly the threshold")
	}
	if !g.exceeds(Vec2{4, 0}, 3) {
		t.Error("not exceeded past the threshold")
	}
	if !g.exceeds(Vec2{0, 0}, 3) {
		t.Error("Moved reset after returning to the anchor")
	}
}

func TestGestureTrackKeepsFirstSnapshot(t *testing.T) {
	s := &Shape{ID: "a", X: 1, Y: 2, W: 3, H: 4}
	g := newGesture(Vec2{})
	g.track(s)
	s.X = 50
	g.track(s)
	g.track(nil)

	if !slices.Equal(g.IDs, []string{"a"}) {
		t.Errorf("IDs = %v, want [a]", g.IDs)
	}
	if g.Origins["a"] != (Rect{1, 2, 3, 4}) {
		t.Errorf("Origins[a] = %+v, want {1 2 3 4}", g.Origins["a"])
	}
	if orig, _ := g.origin("a"); orig.X != 1 {
		t.Errorf("snapshot X = %v, want 1", orig.X)
	}
}

func TestGestureCancelRestores(t *testing.T) {
	a := &Shape{ID: "a", Kind: ShapePath, X: 0, Y: 0, W: 10, H: 10, Points: []Vec2{{0, 0}, {10, 10}}}
	b := &Shape{ID: "b", X: 20, Y: 0, W: 10, H: 10}
	ctx, rec := gestureContext(a, b)

	g := newGesture(Vec2{})
	g.track(a)
	g.track(b)
	a.X, a.W, a.Rotation = 40, 30, 1
	a.Points[1] = Vec2{30, 30}
	ctx.Store.RemoveNode("b")

	g.Cancel(ctx)
	assertBox(t, a, Rect{0, 0, 10, 10})
	if a.Rotation != 0 || a.Points[1] != (Vec2{10, 10}) {
		t.Errorf("a not fully restored: %+v", a)
	}
	ev := rec.OfType(EditorGestureCanceled)
	if len(ev) != 1 || !slices.Equal(ev[0].IDs, []string{"a", "b"}) {
		t.Errorf("canceled events = %+v", ev)
	}
}

func TestGestureCancelRemovesCreated(t *testing.T) {
	c := &Shape{ID: "new", W: 10, H: 10}
	ctx, rec := gestureContext(c)
	ctx.Selection.SelectNode("new")

	g := newGesture(Vec2{})
	g.Created = "new"
	g.Cancel(ctx)

	if _, ok := ctx.Shape("new"); ok {
		t.Error("created shape survived cancel")
	}
	if ctx.Selection.IsSelected("new") {
		t.Error("created shape still selected")
	}
	if ev := rec.OfType(EditorGestureCanceled); len(ev) != 1 || !slices.Equal(ev[0].IDs, []string{"new"}) {
		t.Errorf("canceled events = %+v", ev)
	}
}

func TestGestureCommit(t *testing.T) {
	g := newGesture(Vec2{})
	g.Created = "new"
	if got := g.Commit(); !slices.Equal(got, []string{"new"}) {
		t.Errorf("Commit = %v, want [new]", got)
	}
	g.track(&Shape{ID: "a"})
	if got := g.Commit(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Commit = %v, want [a]", got)
	}
	var nilGesture *Gesture
	if got := nilGesture.Commit(); got != nil {
		t.Errorf("nil Commit = %v", got)
	}
}
