package quill

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func rectApprox(a, b Rect, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps) &&
		approxEqual(a.Width, b.Width, eps) && approxEqual(a.Height, b.Height, eps)
}

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	if got := multiplyAffine(identityTransform, m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
	if got := multiplyAffine(m, identityTransform); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
}

func TestMultiplyAffineOrder(t *testing.T) {
	// Scale then translate: the translation is not scaled.
	m := multiplyAffine(translateAffine(10, 5), scaleAffine(2))
	x, y := transformPoint(m, 1, 1)
	if !approxEqual(x, 12, epsilon) || !approxEqual(y, 7, epsilon) {
		t.Errorf("T*S(1,1) = (%f,%f), want (12,7)", x, y)
	}
	// Translate then scale: the translation is scaled.
	m = multiplyAffine(scaleAffine(2), translateAffine(10, 5))
	x, y = transformPoint(m, 1, 1)
	if !approxEqual(x, 22, epsilon) || !approxEqual(y, 12, epsilon) {
		t.Errorf("S*T(1,1) = (%f,%f), want (22,12)", x, y)
	}
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{1.5, 0, 0, 1.5, -40, 75}
	inv := invertAffine(m)
	prod := multiplyAffine(m, inv)
	for i, want := range identityTransform {
		if !approxEqual(prod[i], want, epsilon) {
			t.Fatalf("m * inv = %v, want identity", prod)
		}
	}
}

func TestInvertAffineSingular(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != identityTransform {
		t.Errorf("invertAffine(singular) = %v, want identity", got)
	}
}

func TestRotateAbout(t *testing.T) {
	x, y := rotateAbout(2, 1, 1, 1, math.Pi/2)
	if !approxEqual(x, 1, epsilon) || !approxEqual(y, 2, epsilon) {
		t.Errorf("rotateAbout 90° = (%f,%f), want (1,2)", x, y)
	}
	x, y = rotateAbout(2, 1, 1, 1, 0)
	if x != 2 || y != 1 {
		t.Errorf("rotateAbout 0 = (%f,%f), want (2,1)", x, y)
	}
}

func TestRotatedAABB(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  Rect
	}{
		{"unrotated", 0, Rect{0, 0, 100, 50}},
		{"quarter turn", math.Pi / 2, Rect{25, -25, 50, 100}},
		{"half turn", math.Pi, Rect{0, 0, 100, 50}},
		{"45 degrees", math.Pi / 4, Rect{
			X: 50 - 75/math.Sqrt2, Y: 25 - 75/math.Sqrt2,
			Width: 150 / math.Sqrt2, Height: 150 / math.Sqrt2,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rotatedAABB(0, 0, 100, 50, tt.angle)
			if !rectApprox(got, tt.want, epsilon) {
				t.Errorf("rotatedAABB = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	tests := []struct {
		x, y float64
		want bool
	}{
		{20, 20, true},
		{10, 10, true},
		{30, 30, true},
		{9.99, 20, false},
		{20, 30.01, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{5, 5, 10, 10}, true},
		{"adjacent", Rect{10, 0, 5, 5}, true},
		{"inside", Rect{2, 2, 2, 2}, true},
		{"apart", Rect{11, 11, 5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectContainsRect(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if !r.ContainsRect(Rect{10, 10, 20, 20}) {
		t.Error("ContainsRect(inner) = false, want true")
	}
	if !r.ContainsRect(r) {
		t.Error("ContainsRect(self) = false, want true")
	}
	if r.ContainsRect(Rect{90, 90, 20, 20}) {
		t.Error("ContainsRect(overhanging) = true, want false")
	}
}

func TestRectUnionExpand(t *testing.T) {
	u := Rect{0, 0, 10, 10}.Union(Rect{20, -5, 5, 5})
	if want := (Rect{0, -5, 25, 15}); u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
	e := Rect{10, 10, 10, 10}.Expand(5)
	if want := (Rect{5, 5, 20, 20}); e != want {
		t.Errorf("Expand = %+v, want %+v", e, want)
	}
}

func TestRectFromPoints(t *testing.T) {
	got := rectFromPoints(Vec2{50, 10}, Vec2{20, 40})
	if want := (Rect{20, 10, 30, 30}); got != want {
		t.Errorf("rectFromPoints = %+v, want %+v", got, want)
	}
}

func TestVec2(t *testing.T) {
	a, b := Vec2{3, 4}, Vec2{1, 1}
	if got := a.Sub(b); got != (Vec2{2, 3}) {
		t.Errorf("Sub = %v, want {2 3}", got)
	}
	if got := a.Add(b); got != (Vec2{4, 5}) {
		t.Errorf("Add = %v, want {4 5}", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.Dist(Vec2{}); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
}
