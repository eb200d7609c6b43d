package blit

import (
	"math"
	"testing"
)

const epsilon = 1e-4

func floatEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func TestAffineTransformPoint(t *testing.T) {
	tests := []struct {
		name   string
		m      Affine
		x, y   float32
		wantX  float32
		wantY  float32
	}{
		{"identity", IdentityAffine(), 3, 4, 3, 4},
		{"translate", TranslateAffine(10, -5), 3, 4, 13, -1},
		{"scale", ScaleAffine(2, 3), 3, 4, 6, 12},
		{"rotate90", RotateAffine(math.Pi / 2), 1, 0, 0, 1},
		{"rotate180", RotateAffine(math.Pi), 1, 0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := tt.m.TransformPoint(tt.x, tt.y)
			if !floatEq(gotX, tt.wantX) || !floatEq(gotY, tt.wantY) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAffineMultiplyOrder(t *testing.T) {
	// Translate then scale: the scale applies to local coordinates, the
	// translation to the result.
	m := TranslateAffine(100, 0).Multiply(ScaleAffine(2, 2))
	x, y := m.TransformPoint(5, 5)
	if !floatEq(x, 110) || !floatEq(y, 10) {
		t.Errorf("composed transform = (%v, %v), want (110, 10)", x, y)
	}
}

func TestAffineTransformRect(t *testing.T) {
	r := RectFromSize(0, 0, 2, 2)

	got := TranslateAffine(5, 5).TransformRect(r)
	want := Rect{MinX: 5, MinY: 5, MaxX: 7, MaxY: 7}
	if got != want {
		t.Errorf("translated rect = %+v, want %+v", got, want)
	}

	// A 45 degree rotation of a 2x2 box centered at the origin covers
	// [-sqrt2, sqrt2] on both axes.
	centered := Rect{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	rot := RotateAffine(math.Pi / 4).TransformRect(centered)
	sqrt2 := float32(math.Sqrt2)
	if !floatEq(rot.MinX, -sqrt2) || !floatEq(rot.MaxX, sqrt2) ||
		!floatEq(rot.MinY, -sqrt2) || !floatEq(rot.MaxY, sqrt2) {
		t.Errorf("rotated rect = %+v, want +/-sqrt2 box", rot)
	}
}

func TestRectUnionAndIntersects(t *testing.T) {
	a := RectFromSize(0, 0, 10, 10)
	b := RectFromSize(5, 5, 10, 10)
	c := RectFromSize(20, 20, 5, 5)

	u := a.Union(b)
	if u.MinX != 0 || u.MinY != 0 || u.MaxX != 15 || u.MaxY != 15 {
		t.Errorf("union = %+v, want (0,0)-(15,15)", u)
	}

	if !a.Intersects(b) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(c) {
		t.Error("distant rects should not intersect")
	}

	// Touching edges count as intersecting.
	d := RectFromSize(10, 0, 5, 5)
	if !a.Intersects(d) {
		t.Error("touching rects should intersect")
	}
}

func TestEmptyRect(t *testing.T) {
	e := EmptyRect()
	if !e.IsEmpty() {
		t.Error("EmptyRect should be empty")
	}

	grown := e.UnionPoint(3, 4).UnionPoint(-1, 2)
	want := Rect{MinX: -1, MinY: 2, MaxX: 3, MaxY: 4}
	if grown != want {
		t.Errorf("grown rect = %+v, want %+v", grown, want)
	}

	if RectFromSize(0, 0, 10, 10).Intersects(e) {
		t.Error("nothing intersects the empty rect")
	}
}
