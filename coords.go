package quill

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ViewTransform is the decomposed pan/zoom state of a CoordinateSystem.
// Screen = World * Scale + Translate.
type ViewTransform struct {
	Scale      float64 `yaml:"scale"`
	TranslateX float64 `yaml:"translateX"`
	TranslateY float64 `yaml:"translateY"`
}

// viewAnim holds active tweens for an animated view change. When anchored,
// only the scale is tweened and each step re-anchors at (cx, cy).
type viewAnim struct {
	scale    *gween.Tween
	tx, ty   *gween.Tween
	anchored bool
	cx, cy   float64
}

// CoordinateSystem owns the view transform of one editor session and converts
// between screen (input surface) and world (document) coordinates.
type CoordinateSystem struct {
	minScale, maxScale float64
	viewport           Rect

	matrix    [6]float64
	invMatrix [6]float64
	dirty     bool
	version   uint64

	anim *viewAnim
}

// NewCoordinateSystem creates an identity transform clamped to
// [minScale, maxScale] with the given screen-space viewport.
func NewCoordinateSystem(viewport Rect, minScale, maxScale float64) *CoordinateSystem {
	if minScale <= 0 {
		minScale = 0.1
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	return &CoordinateSystem{
		minScale: minScale,
		maxScale: maxScale,
		viewport: viewport,
		matrix:   identityTransform,
		dirty:    true,
	}
}

// computeInverse refreshes the cached inverse matrix if dirty.
func (c *CoordinateSystem) computeInverse() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.invMatrix = invertAffine(c.matrix)
}

func (c *CoordinateSystem) setMatrix(m [6]float64) {
	if m == c.matrix {
		return
	}
	c.matrix = m
	c.dirty = true
	c.version++
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// clampScale restricts s to the configured range.
func (c *CoordinateSystem) clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return c.Scale()
	}
	return math.Max(c.minScale, math.Min(s, c.maxScale))
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *CoordinateSystem) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeInverse()
	return transformPoint(c.invMatrix, sx, sy)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *CoordinateSystem) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.matrix, wx, wy)
}

// UpdatePosition translates the view by a screen-space delta. Non-finite
// deltas are ignored.
func (c *CoordinateSystem) UpdatePosition(dx, dy float64) {
	if (dx == 0 && dy == 0) || !finite(dx) || !finite(dy) {
		return
	}
	c.setMatrix(multiplyAffine(translateAffine(dx, dy), c.matrix))
}

// UpdateScale rescales the view anchored at the screen origin.
func (c *CoordinateSystem) UpdateScale(newScale float64) {
	c.UpdateScaleAt(newScale, 0, 0)
}

// UpdateScaleAt rescales the view so that the world point under the screen
// point (cx, cy) stays under it. Out-of-range scales are clamped.
//
//	M' = T(c) * S(ratio) * T(-c) * M
func (c *CoordinateSystem) UpdateScaleAt(newScale, cx, cy float64) {
	cur := c.Scale()
	target := c.clampScale(newScale)
	if cur == 0 || target == cur || !finite(cx) || !finite(cy) {
		return
	}
	ratio := target / cur
	step := multiplyAffine(translateAffine(cx, cy),
		multiplyAffine(scaleAffine(ratio), translateAffine(-cx, -cy)))
	m := multiplyAffine(step, c.matrix)
	// Pin the scale exactly so repeated zooms do not drift past the clamp.
	m[0], m[3] = target, target
	c.setMatrix(m)
}

// Scale returns the current zoom factor.
func (c *CoordinateSystem) Scale() float64 {
	return math.Hypot(c.matrix[0], c.matrix[1])
}

// Transform returns the decomposed view transform.
func (c *CoordinateSystem) Transform() ViewTransform {
	return ViewTransform{Scale: c.Scale(), TranslateX: c.matrix[4], TranslateY: c.matrix[5]}
}

// SetTransform replaces the view transform. The scale is clamped and a
// non-finite translation component keeps its current value.
func (c *CoordinateSystem) SetTransform(t ViewTransform) {
	s := c.clampScale(t.Scale)
	tx, ty := t.TranslateX, t.TranslateY
	if !finite(tx) {
		tx = c.matrix[4]
	}
	if !finite(ty) {
		ty = c.matrix[5]
	}
	c.setMatrix([6]float64{s, 0, 0, s, tx, ty})
}

// Reset restores the identity transform and stops any animation.
func (c *CoordinateSystem) Reset() {
	c.anim = nil
	c.setMatrix(identityTransform)
}

// Matrix returns the forward (world to screen) affine matrix.
func (c *CoordinateSystem) Matrix() [6]float64 {
	return c.matrix
}

// Version increments every time the transform changes.
func (c *CoordinateSystem) Version() uint64 {
	return c.version
}

// ScaleRange returns the clamp range.
func (c *CoordinateSystem) ScaleRange() (minScale, maxScale float64) {
	return c.minScale, c.maxScale
}

// SetViewport sets the screen-space rectangle the canvas occupies.
func (c *CoordinateSystem) SetViewport(vp Rect) {
	c.viewport = vp
}

// Viewport returns the screen-space rectangle the canvas occupies.
func (c *CoordinateSystem) Viewport() Rect {
	return c.viewport
}

// ViewportCenter returns the screen-space center of the viewport.
func (c *CoordinateSystem) ViewportCenter() Vec2 {
	return c.viewport.Center()
}

// VisibleBounds returns the axis-aligned bounding rect of the viewport in
// world space.
func (c *CoordinateSystem) VisibleBounds() Rect {
	vx := c.viewport.X
	vy := c.viewport.Y
	vr := vx + c.viewport.Width
	vb := vy + c.viewport.Height

	x0, y0 := c.ScreenToWorld(vx, vy)
	x1, y1 := c.ScreenToWorld(vr, vy)
	x2, y2 := c.ScreenToWorld(vr, vb)
	x3, y3 := c.ScreenToWorld(vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Animation ---

// AnimateScaleAt zooms to scale over duration seconds, keeping the world
// point under (cx, cy) fixed on every step.
func (c *CoordinateSystem) AnimateScaleAt(scale, cx, cy float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	target := c.clampScale(scale)
	c.anim = &viewAnim{
		scale:    gween.New(float32(c.Scale()), float32(target), duration, easeFn),
		anchored: true,
		cx:       cx,
		cy:       cy,
	}
}

// FitRect animates the view so that the world rectangle r, grown by padding
// screen pixels on every side, fills the viewport. A zero duration applies
// the change immediately.
func (c *CoordinateSystem) FitRect(r Rect, padding float64, duration float32, easeFn ease.TweenFunc) {
	if r.Width <= 0 && r.Height <= 0 {
		return
	}
	availW := math.Max(1, c.viewport.Width-2*padding)
	availH := math.Max(1, c.viewport.Height-2*padding)
	scale := c.maxScale
	if r.Width > 0 {
		scale = math.Min(scale, availW/r.Width)
	}
	if r.Height > 0 {
		scale = math.Min(scale, availH/r.Height)
	}
	scale = c.clampScale(scale)
	center := r.Center()
	vc := c.viewport.Center()
	target := ViewTransform{
		Scale:      scale,
		TranslateX: vc.X - center.X*scale,
		TranslateY: vc.Y - center.Y*scale,
	}
	if duration <= 0 {
		c.anim = nil
		c.SetTransform(target)
		return
	}
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	cur := c.Transform()
	c.anim = &viewAnim{
		scale: gween.New(float32(cur.Scale), float32(target.Scale), duration, easeFn),
		tx:    gween.New(float32(cur.TranslateX), float32(target.TranslateX), duration, easeFn),
		ty:    gween.New(float32(cur.TranslateY), float32(target.TranslateY), duration, easeFn),
	}
}

// Animating reports whether a view animation is in progress.
func (c *CoordinateSystem) Animating() bool {
	return c.anim != nil
}

// StopAnimation cancels any running view animation, keeping the current view.
func (c *CoordinateSystem) StopAnimation() {
	c.anim = nil
}

// Update advances the view animation by dt seconds. Reports whether the
// transform changed.
func (c *CoordinateSystem) Update(dt float32) bool {
	if c.anim == nil {
		return false
	}
	before := c.version
	a := c.anim
	s, done := a.scale.Update(dt)
	if a.anchored {
		c.UpdateScaleAt(float64(s), a.cx, a.cy)
	} else {
		tx, _ := a.tx.Update(dt)
		ty, _ := a.ty.Update(dt)
		c.SetTransform(ViewTransform{Scale: float64(s), TranslateX: float64(tx), TranslateY: float64(ty)})
	}
	if done {
		c.anim = nil
	}
	return c.version != before
}
