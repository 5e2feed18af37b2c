package quill

import "slices"

// ShapeStore is the document collaborator the core reads geometry from.
// Returned *Shape values are live references: handlers mutate them in place.
type ShapeStore interface {
	NodeByID(id string) (*Shape, bool)
	AllNodes() []*Shape
	AddNode(s *Shape)
	RemoveNode(id string) bool
}

// SelectionStore holds the set of selected shape ids.
type SelectionStore interface {
	SelectedIDs() []string
	IsSelected(id string) bool
	SelectNode(id string)
	ToggleNode(id string)
	AddToSelection(id string)
	ClearSelection()
}

// MemoryStore is an in-memory ShapeStore that preserves insertion order,
// which is also the painter order (last added is topmost).
type MemoryStore struct {
	byID  map[string]*Shape
	order []*Shape
}

// NewMemoryStore creates a store holding the given shapes.
func NewMemoryStore(shapes ...*Shape) *MemoryStore {
	m := &MemoryStore{byID: make(map[string]*Shape, len(shapes))}
	for _, s := range shapes {
		m.AddNode(s)
	}
	return m
}

// NodeByID returns the shape with the given id.
func (m *MemoryStore) NodeByID(id string) (*Shape, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// AllNodes returns every shape in painter order. The returned slice MUST NOT
// be mutated.
func (m *MemoryStore) AllNodes() []*Shape {
	return m.order
}

// AddNode inserts s, replacing any shape with the same id in place.
func (m *MemoryStore) AddNode(s *Shape) {
	if s == nil || s.ID == "" {
		return
	}
	if old, ok := m.byID[s.ID]; ok {
		i := slices.Index(m.order, old)
		m.order[i] = s
		m.byID[s.ID] = s
		return
	}
	m.byID[s.ID] = s
	m.order = append(m.order, s)
}

// RemoveNode deletes the shape with the given id. Reports whether it existed.
func (m *MemoryStore) RemoveNode(id string) bool {
	s, ok := m.byID[id]
	if !ok {
		return false
	}
	delete(m.byID, id)
	// Copy so slices previously returned by AllNodes stay intact.
	m.order = slices.DeleteFunc(slices.Clone(m.order), func(o *Shape) bool { return o == s })
	return true
}

// Len returns the number of shapes in the store.
func (m *MemoryStore) Len() int { return len(m.order) }

// Selection is the default SelectionStore. Iteration order follows the order
// ids were added, which keeps logs and tests deterministic.
type Selection struct {
	ids []string
	set map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[string]struct{})}
}

// SelectedIDs returns a copy of the selected ids.
func (s *Selection) SelectedIDs() []string {
	return slices.Clone(s.ids)
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.set[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// SelectNode replaces the selection with id.
func (s *Selection) SelectNode(id string) {
	s.ClearSelection()
	s.AddToSelection(id)
}

// ToggleNode adds id if absent, removes it otherwise.
func (s *Selection) ToggleNode(id string) {
	if s.IsSelected(id) {
		s.remove(id)
		return
	}
	s.AddToSelection(id)
}

// AddToSelection adds id to the selection.
func (s *Selection) AddToSelection(id string) {
	if id == "" || s.IsSelected(id) {
		return
	}
	s.set[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// ClearSelection removes every id.
func (s *Selection) ClearSelection() {
	clear(s.set)
	s.ids = s.ids[:0]
}

func (s *Selection) remove(id string) {
	delete(s.set, id)
	s.ids = slices.DeleteFunc(s.ids, func(o string) bool { return o == id })
}

// pruneSelection drops ids that no longer resolve in the store.
func pruneSelection(sel SelectionStore, store ShapeStore) {
	for _, id := range sel.SelectedIDs() {
		if _, ok := store.NodeByID(id); !ok {
			sel.ToggleNode(id)
		}
	}
}
