package quill

import (
	"fmt"
	"math"
	"sort"
)

// HitMode selects how a rectangle query matches shapes.
type HitMode uint8

const (
	HitIntersects HitMode = iota // shape bounds overlap the rectangle
	HitContains                  // shape bounds lie fully inside the rectangle
	HitCenter                    // shape center lies inside the rectangle
)

var hitModeNames = [...]string{"intersects", "contains", "center"}

func (m HitMode) String() string {
	if int(m) < len(hitModeNames) {
		return hitModeNames[m]
	}
	return fmt.Sprintf("HitMode(%d)", m)
}

// ParseHitMode converts "intersects", "contains" or "center" to a HitMode.
// An empty name selects HitIntersects.
func ParseHitMode(name string) (HitMode, error) {
	if name == "" {
		return HitIntersects, nil
	}
	for i, n := range hitModeNames {
		if n == name {
			return HitMode(i), nil
		}
	}
	return HitIntersects, fmt.Errorf("unknown hit mode %q", name)
}

// NodePriority is the score of one shape for a point query.
type NodePriority struct {
	ShapeID  string
	Priority float64
	Distance float64
	Area     float64
}

// Scoring constants for point queries.
const (
	rotatedAABBSlack = 0.3  // fraction of max(w, h) added around rotated shapes
	sizeScoreBase    = 50.0 // size score = base - 10*log10(area+1)
	proximityMax     = 20.0 // proximity score = max(0, max - dist/10)
	edgeDistance     = 10.0 // world units from an edge that earn the edge bonus
	edgeBonus        = 15.0
)

// typeBonus favors small, precise targets over generic or container shapes.
var typeBonus = map[ShapeKind]float64{
	ShapeText:    30,
	ShapePath:    20,
	ShapeRect:    10,
	ShapeEllipse: 10,
	ShapeImage:   5,
	ShapeFrame:   0,
}

// HitTester resolves points and rectangles to shapes. The optional index
// narrows the candidate set; when it reports nothing the full candidate list
// is scanned.
type HitTester struct {
	index *SpatialIndex
}

// NewHitTester creates a hit tester backed by index, which may be nil.
func NewHitTester(index *SpatialIndex) *HitTester {
	return &HitTester{index: index}
}

// narrow filters candidates down to the ids the index reports. Order of
// candidates is preserved. An empty index result keeps every candidate.
func narrow(ids []string, candidates []*Shape) []*Shape {
	if len(ids) == 0 {
		return candidates
	}
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]*Shape, 0, len(ids))
	for _, s := range candidates {
		if s == nil {
			continue
		}
		if _, ok := keep[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// preTestBox is the cheap rejection box for a point query. Rotated shapes get
// slack on every side and never less than their exact rotated bounds.
func preTestBox(s *Shape) Rect {
	box := s.Box()
	if s.Rotation == 0 {
		return box
	}
	slack := rotatedAABBSlack * math.Max(math.Abs(s.W), math.Abs(s.H))
	return box.Expand(slack).Union(s.Bounds())
}

// FindBestAtPoint returns the id of the shape the user most likely meant at
// world point p.
func (h *HitTester) FindBestAtPoint(p Vec2, candidates []*Shape) (string, bool) {
	ranked := h.Rank(p, candidates)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].ShapeID, true
}

// Rank scores every candidate that contains p, highest priority first. Ties
// keep candidate order.
func (h *HitTester) Rank(p Vec2, candidates []*Shape) []NodePriority {
	if h.index != nil {
		candidates = narrow(h.index.Candidates(p), candidates)
	}
	var hits []NodePriority
	for _, s := range candidates {
		if s == nil || !preTestBox(s).Contains(p.X, p.Y) {
			continue
		}
		lx, ly := s.toLocal(p.X, p.Y)
		box := s.Box()
		if !box.Contains(lx, ly) {
			continue
		}
		hits = append(hits, scoreHit(s, p, lx, ly))
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Priority > hits[j].Priority
	})
	return hits
}

// scoreHit computes the priority of s for world point p, whose coordinates
// in the shape's unrotated frame are (lx, ly).
func scoreHit(s *Shape, p Vec2, lx, ly float64) NodePriority {
	area := s.Area()
	dist := p.Dist(s.Center())

	score := typeBonus[s.Kind]
	score += sizeScoreBase - 10*math.Log10(area+1)
	score += math.Max(0, proximityMax-dist/10)

	box := s.Box()
	edge := math.Min(
		math.Min(lx-box.X, box.Right()-lx),
		math.Min(ly-box.Y, box.Bottom()-ly),
	)
	if edge <= edgeDistance {
		score += edgeBonus
	}
	return NodePriority{ShapeID: s.ID, Priority: score, Distance: dist, Area: area}
}

// FindInRectangle returns every candidate matching r under mode, in candidate
// order. No ranking is applied.
func (h *HitTester) FindInRectangle(r Rect, candidates []*Shape, mode HitMode) []string {
	// A marquee reaching past the grid may cover unindexed shapes.
	if h.index != nil && h.index.Covers(r) {
		candidates = narrow(h.index.CandidatesInRect(r), candidates)
	}
	var out []string
	for _, s := range candidates {
		if s == nil {
			continue
		}
		if matchRect(s, r, mode) {
			out = append(out, s.ID)
		}
	}
	return out
}

func matchRect(s *Shape, r Rect, mode HitMode) bool {
	switch mode {
	case HitContains:
		return r.ContainsRect(s.Bounds())
	case HitCenter:
		c := s.Center()
		return r.Contains(c.X, c.Y)
	default:
		return r.Intersects(s.Bounds())
	}
}
