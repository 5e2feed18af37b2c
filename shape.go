package quill

import "math"

// Shape is the geometric view of a document node. Rotation is in radians
// about the center of the (X, Y, W, H) box. Points is only used by paths and
// is relative to (X, Y).
//
// Handlers mutate X/Y/W/H directly on references returned by a ShapeStore.
type Shape struct {
	ID       string    `yaml:"id"`
	Kind     ShapeKind `yaml:"kind"`
	X        float64   `yaml:"x"`
	Y        float64   `yaml:"y"`
	W        float64   `yaml:"w"`
	H        float64   `yaml:"h"`
	Rotation float64   `yaml:"rotation,omitempty"`
	Points   []Vec2    `yaml:"points,omitempty"`
}

// Box returns the unrotated box of the shape.
func (s *Shape) Box() Rect {
	return Rect{X: s.X, Y: s.Y, Width: s.W, Height: s.H}
}

// Center returns the rotation center of the shape.
func (s *Shape) Center() Vec2 {
	return Vec2{s.X + s.W/2, s.Y + s.H/2}
}

// Bounds returns the axis-aligned bounding box of the shape, accounting for
// rotation.
func (s *Shape) Bounds() Rect {
	return rotatedAABB(s.X, s.Y, s.W, s.H, s.Rotation)
}

// Area returns the unrotated area of the shape.
func (s *Shape) Area() float64 {
	return math.Abs(s.W * s.H)
}

// toLocal maps a world point into the shape's unrotated frame.
func (s *Shape) toLocal(x, y float64) (float64, float64) {
	if s.Rotation == 0 {
		return x, y
	}
	c := s.Center()
	return rotateAbout(x, y, c.X, c.Y, -s.Rotation)
}

// Contains reports whether the world point (x, y) lies inside the shape's
// rotated box. Points on the edge are considered inside.
func (s *Shape) Contains(x, y float64) bool {
	lx, ly := s.toLocal(x, y)
	return s.Box().Contains(lx, ly)
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	if s.Points != nil {
		c.Points = append([]Vec2(nil), s.Points...)
	}
	return &c
}

// fitPoints recomputes the shape box so that it tightly encloses its path
// points, keeping the points' world positions unchanged.
func (s *Shape) fitPoints() {
	if len(s.Points) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range s.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for i := range s.Points {
		s.Points[i].X -= minX
		s.Points[i].Y -= minY
	}
	s.X += minX
	s.Y += minY
	s.W = maxX - minX
	s.H = maxY - minY
}
