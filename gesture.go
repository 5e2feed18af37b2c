package quill

// Gesture is the transaction of one press-move-release interaction. It
// remembers the original geometry of every shape it touches so the gesture
// can be committed or canceled symmetrically.
type Gesture struct {
	ID string
	// Anchor is the world position of the press.
	Anchor Vec2
	// Last is the most recent world position seen by the gesture.
	Last Vec2
	// IDs are the shapes affected, in selection order.
	IDs []string
	// Origins holds the pre-gesture box of each affected shape.
	Origins map[string]Rect
	// Created is the id of a shape the gesture inserted, if any.
	Created string
	// Moved is set once the pointer traveled past the drag threshold.
	Moved bool

	snapshots map[string]*Shape
}

func newGesture(anchor Vec2) *Gesture {
	return &Gesture{
		ID:        newGestureID(),
		Anchor:    anchor,
		Last:      anchor,
		Origins:   make(map[string]Rect),
		snapshots: make(map[string]*Shape),
	}
}

// track records the current geometry of s. Tracking the same shape twice
// keeps the first snapshot.
func (g *Gesture) track(s *Shape) {
	if s == nil {
		return
	}
	if _, ok := g.snapshots[s.ID]; ok {
		return
	}
	g.IDs = append(g.IDs, s.ID)
	g.Origins[s.ID] = s.Box()
	g.snapshots[s.ID] = s.Clone()
}

// origin returns the snapshot taken for id.
func (g *Gesture) origin(id string) (*Shape, bool) {
	s, ok := g.snapshots[id]
	return s, ok
}

// exceeds reports whether world point p is farther than threshold from the
// anchor. Once exceeded, Moved stays set.
func (g *Gesture) exceeds(p Vec2, threshold float64) bool {
	if !g.Moved && p.Dist(g.Anchor) > threshold {
		g.Moved = true
	}
	return g.Moved
}

// Commit ends the gesture keeping every mutation. It returns the affected ids.
func (g *Gesture) Commit() []string {
	if g == nil {
		return nil
	}
	ids := g.IDs
	if g.Created != "" && len(ids) == 0 {
		ids = []string{g.Created}
	}
	Logger().Debug("gesture committed", "gesture", g.ID, "shapes", len(ids), "moved", g.Moved)
	return ids
}

// Cancel ends the gesture restoring every tracked shape to its snapshot and
// removing a created shape. Shapes deleted meanwhile are skipped.
func (g *Gesture) Cancel(ctx *Context) {
	if g == nil {
		return
	}
	for _, id := range g.IDs {
		live, ok := ctx.Shape(id)
		if !ok {
			continue
		}
		orig := g.snapshots[id]
		live.X, live.Y, live.W, live.H = orig.X, orig.Y, orig.W, orig.H
		live.Rotation = orig.Rotation
		if orig.Points != nil {
			live.Points = append(live.Points[:0], orig.Points...)
		}
		ctx.reindex(live)
	}
	if g.Created != "" && ctx.Store != nil {
		if ctx.Store.RemoveNode(g.Created) {
			if ctx.Index != nil {
				ctx.Index.Remove(g.Created)
			}
			if ctx.Selection != nil && ctx.Selection.IsSelected(g.Created) {
				ctx.Selection.ToggleNode(g.Created)
			}
		}
	}
	ids := append([]string(nil), g.IDs...)
	if g.Created != "" {
		ids = append(ids, g.Created)
	}
	ctx.emit(EditorEvent{Type: EditorGestureCanceled, IDs: ids})
	Logger().Debug("gesture canceled", "gesture", g.ID, "shapes", len(ids))
}
