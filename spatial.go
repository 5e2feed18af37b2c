package quill

import (
	"math"
	"slices"
	"strconv"
	"time"
)

// GridBounds is the world-space area covered by a SpatialIndex grid.
type GridBounds struct {
	Left, Top, Right, Bottom float64
	CellSize                 float64
}

// Rect returns the bounds as a Rect.
func (g GridBounds) Rect() Rect {
	return Rect{X: g.Left, Y: g.Top, Width: g.Right - g.Left, Height: g.Bottom - g.Top}
}

// CellKey addresses one grid cell.
type CellKey struct {
	Col, Row int
}

// String returns the "col,row" form of the key.
func (k CellKey) String() string {
	return strconv.Itoa(k.Col) + "," + strconv.Itoa(k.Row)
}

// IndexStats describes the current state of a SpatialIndex.
type IndexStats struct {
	TotalCells    int
	ActiveCells   int
	Utilization   float64
	IndexedShapes int
	Rebuilds      int
	CellSize      float64
}

// SpatialOptions tunes the rebuild heuristics of a SpatialIndex.
type SpatialOptions struct {
	BaseCellSize     float64
	MinCellSize      float64
	MaxCellSize      float64
	BufferCells      int
	EdgeMarginCells  float64
	ZoomRebuildRatio float64
	MinUtilization   float64
	RebuildCooldown  time.Duration
}

// spatialOptionsFromConfig extracts the index tunables from a Config.
func spatialOptionsFromConfig(cfg Config) SpatialOptions {
	return SpatialOptions{
		BaseCellSize:     cfg.BaseCellSize,
		MinCellSize:      cfg.MinCellSize,
		MaxCellSize:      cfg.MaxCellSize,
		BufferCells:      cfg.BufferCells,
		EdgeMarginCells:  cfg.EdgeMarginCells,
		ZoomRebuildRatio: cfg.ZoomRebuildRatio,
		MinUtilization:   cfg.MinUtilization,
		RebuildCooldown:  cfg.RebuildCooldown,
	}
}

// SpatialIndex is a viewport-adaptive uniform grid that buckets shape ids by
// their axis-aligned bounds. It is a candidate prefilter only: shapes outside
// the buffered viewport are not indexed, and queries outside the grid return
// no candidates so callers fall back to a full scan.
type SpatialIndex struct {
	store ShapeStore
	opts  SpatialOptions

	cells  map[CellKey][]string
	member map[string][]CellKey // id -> cells it occupies

	bounds      GridBounds
	cols, rows  int
	built       bool
	lastZoom    float64
	lastRebuild time.Time
	rebuilds    int

	now func() time.Time
}

// NewSpatialIndex creates an empty index reading shapes from store.
func NewSpatialIndex(store ShapeStore, opts SpatialOptions) *SpatialIndex {
	def := spatialOptionsFromConfig(DefaultConfig())
	if opts.BaseCellSize <= 0 {
		opts.BaseCellSize = def.BaseCellSize
	}
	if opts.MinCellSize <= 0 {
		opts.MinCellSize = def.MinCellSize
	}
	if opts.MaxCellSize < opts.MinCellSize {
		opts.MaxCellSize = math.Max(def.MaxCellSize, opts.MinCellSize)
	}
	if opts.BufferCells < 0 {
		opts.BufferCells = 0
	}
	return &SpatialIndex{
		store:  store,
		opts:   opts,
		cells:  make(map[CellKey][]string),
		member: make(map[string][]CellKey),
		now:    time.Now,
	}
}

// cellSizeFor returns the cell size for a zoom level: inversely proportional
// to the square root of the zoom, clamped to the configured range.
func (s *SpatialIndex) cellSizeFor(zoom float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	size := s.opts.BaseCellSize / math.Sqrt(zoom)
	return math.Max(s.opts.MinCellSize, math.Min(size, s.opts.MaxCellSize))
}

// UpdateViewport decides whether the grid must be rebuilt for the given
// world-space visible bounds and zoom, and rebuilds it if so.
func (s *SpatialIndex) UpdateViewport(visible Rect, zoom float64) bool {
	reason := s.rebuildReason(visible, zoom)
	if reason == "" {
		return false
	}
	if s.built && s.now().Sub(s.lastRebuild) < s.opts.RebuildCooldown {
		Logger().Debug("spatial index rebuild suppressed", "reason", reason)
		return false
	}
	s.rebuild(visible, zoom)
	Logger().Debug("spatial index rebuilt",
		"reason", reason, "cellSize", s.bounds.CellSize,
		"cells", len(s.cells), "shapes", len(s.member))
	return true
}

// rebuildReason returns a non-empty description when a rebuild is warranted.
func (s *SpatialIndex) rebuildReason(visible Rect, zoom float64) string {
	if !s.built {
		return "initial"
	}
	if s.lastZoom > 0 && math.Abs(zoom-s.lastZoom)/s.lastZoom > s.opts.ZoomRebuildRatio {
		return "zoom"
	}
	margin := s.opts.EdgeMarginCells * s.bounds.CellSize
	if visible.X-s.bounds.Left < margin ||
		visible.Y-s.bounds.Top < margin ||
		s.bounds.Right-visible.Right() < margin ||
		s.bounds.Bottom-visible.Bottom() < margin {
		return "edge"
	}
	if st := s.Stats(); st.TotalCells > 0 && st.Utilization < s.opts.MinUtilization {
		return "sparse"
	}
	return ""
}

// Rebuild forces a rebuild for the given viewport, ignoring the cooldown.
func (s *SpatialIndex) Rebuild(visible Rect, zoom float64) {
	s.rebuild(visible, zoom)
}

func (s *SpatialIndex) rebuild(visible Rect, zoom float64) {
	clear(s.cells)
	clear(s.member)

	size := s.cellSizeFor(zoom)
	buf := float64(s.opts.BufferCells) * size
	left := math.Floor((visible.X-buf)/size) * size
	top := math.Floor((visible.Y-buf)/size) * size
	right := math.Ceil((visible.Right()+buf)/size) * size
	bottom := math.Ceil((visible.Bottom()+buf)/size) * size
	if right <= left {
		right = left + size
	}
	if bottom <= top {
		bottom = top + size
	}
	s.bounds = GridBounds{Left: left, Top: top, Right: right, Bottom: bottom, CellSize: size}
	s.cols = int(math.Round((right - left) / size))
	s.rows = int(math.Round((bottom - top) / size))

	s.built = true
	s.lastZoom = zoom
	s.lastRebuild = s.now()
	s.rebuilds++

	if s.store == nil {
		return
	}
	for _, sh := range s.store.AllNodes() {
		s.insert(sh)
	}
}

// cellRange returns the inclusive cell range covering r, clipped to the grid.
// ok is false when r lies entirely outside the grid.
func (s *SpatialIndex) cellRange(r Rect) (c0, r0, c1, r1 int, ok bool) {
	if !s.built || !r.Intersects(s.bounds.Rect()) {
		return 0, 0, 0, 0, false
	}
	size := s.bounds.CellSize
	c0 = int(math.Floor((r.X - s.bounds.Left) / size))
	r0 = int(math.Floor((r.Y - s.bounds.Top) / size))
	c1 = int(math.Floor((r.Right() - s.bounds.Left) / size))
	r1 = int(math.Floor((r.Bottom() - s.bounds.Top) / size))
	c0 = max(c0, 0)
	r0 = max(r0, 0)
	c1 = min(c1, s.cols-1)
	r1 = min(r1, s.rows-1)
	return c0, r0, c1, r1, c0 <= c1 && r0 <= r1
}

// insert adds sh to every cell its bounds overlap. Shapes outside the grid are
// not indexed.
func (s *SpatialIndex) insert(sh *Shape) {
	if sh == nil {
		return
	}
	c0, r0, c1, r1, ok := s.cellRange(sh.Bounds())
	if !ok {
		return
	}
	keys := make([]CellKey, 0, (c1-c0+1)*(r1-r0+1))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			k := CellKey{Col: col, Row: row}
			s.cells[k] = append(s.cells[k], sh.ID)
			keys = append(keys, k)
		}
	}
	s.member[sh.ID] = keys
}

// Remove drops id from every cell it occupies.
func (s *SpatialIndex) Remove(id string) {
	keys, ok := s.member[id]
	if !ok {
		return
	}
	for _, k := range keys {
		ids := s.cells[k]
		for i, o := range ids {
			if o == id {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(s.cells, k)
		} else {
			s.cells[k] = ids
		}
	}
	delete(s.member, id)
}

// Refresh re-buckets a shape after its geometry changed.
func (s *SpatialIndex) Refresh(sh *Shape) {
	if sh == nil || !s.built {
		return
	}
	s.Remove(sh.ID)
	s.insert(sh)
}

// Candidates returns the ids bucketed in the cell containing p. The result is
// empty when p lies outside the grid.
func (s *SpatialIndex) Candidates(p Vec2) []string {
	if !s.InBounds(p) {
		return nil
	}
	size := s.bounds.CellSize
	col := min(int(math.Floor((p.X-s.bounds.Left)/size)), s.cols-1)
	row := min(int(math.Floor((p.Y-s.bounds.Top)/size)), s.rows-1)
	ids := s.cells[CellKey{Col: col, Row: row}]
	if len(ids) == 0 {
		return nil
	}
	return append([]string(nil), ids...)
}

// CandidatesInRect returns the de-duplicated ids of every cell overlapping r.
func (s *SpatialIndex) CandidatesInRect(r Rect) []string {
	c0, r0, c1, r1, ok := s.cellRange(r)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, id := range s.cells[CellKey{Col: col, Row: row}] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

// InBounds reports whether p lies within the current grid.
func (s *SpatialIndex) InBounds(p Vec2) bool {
	return s.built && s.bounds.Rect().Contains(p.X, p.Y)
}

// Covers reports whether r lies entirely within the current grid.
func (s *SpatialIndex) Covers(r Rect) bool {
	return s.built && s.bounds.Rect().ContainsRect(r)
}

// Bounds returns the grid bounds; ok is false before the first build.
func (s *SpatialIndex) Bounds() (GridBounds, bool) {
	return s.bounds, s.built
}

// Cell returns a copy of the ids stored under key.
func (s *SpatialIndex) Cell(key CellKey) []string {
	return slices.Clone(s.cells[key])
}

// Stats returns occupancy figures for the current grid.
func (s *SpatialIndex) Stats() IndexStats {
	total := s.cols * s.rows
	st := IndexStats{
		TotalCells:    total,
		ActiveCells:   len(s.cells),
		IndexedShapes: len(s.member),
		Rebuilds:      s.rebuilds,
		CellSize:      s.bounds.CellSize,
	}
	if total > 0 {
		st.Utilization = float64(st.ActiveCells) / float64(total)
	}
	return st
}
