package blit

import (
	"math"
	"testing"
)

func TestCameraVisibleBounds(t *testing.T) {
	cam := NewCamera(800, 600)

	got := cam.VisibleBounds()
	want := Rect{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
	if got != want {
		t.Errorf("VisibleBounds() = %+v, want %+v", got, want)
	}
}

func TestCameraVisibleBoundsZoom(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 2

	got := cam.VisibleBounds()
	// At zoom 2 the view covers half the world extent around the center.
	want := Rect{MinX: 200, MinY: 150, MaxX: 600, MaxY: 450}
	if got != want {
		t.Errorf("VisibleBounds() at zoom 2 = %+v, want %+v", got, want)
	}
}

func TestCameraVisibleBoundsRotated(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.Center = Vec2{}
	cam.Rotation = math.Pi / 4

	got := cam.VisibleBounds()
	// A rotated square view's AABB grows to the diagonal.
	half := float32(50 * math.Sqrt2)
	if !floatEq(got.MinX, -half) || !floatEq(got.MaxX, half) ||
		!floatEq(got.MinY, -half) || !floatEq(got.MaxY, half) {
		t.Errorf("rotated VisibleBounds() = %+v, want +/-%v box", got, half)
	}
}

func TestCameraViewMatrixMapsCenterToViewportCenter(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Center = Vec2{X: 1000, Y: -400}
	cam.Rotation = 0.7
	cam.Zoom = 3

	x, y := cam.ViewMatrix().TransformPoint(1000, -400)
	if !floatEq(x, 400) || !floatEq(y, 300) {
		t.Errorf("center maps to (%v, %v), want (400, 300)", x, y)
	}
}

func TestCameraViewMatrixZoom(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Center = Vec2{}
	cam.Zoom = 2

	// One world unit right of the center lands two pixels right of the
	// viewport center.
	x, y := cam.ViewMatrix().TransformPoint(1, 0)
	if !floatEq(x, 402) || !floatEq(y, 300) {
		t.Errorf("unit offset maps to (%v, %v), want (402, 300)", x, y)
	}
}

func TestCameraZeroZoomDefaultsToOne(t *testing.T) {
	cam := Camera{Viewport: Vec2{X: 100, Y: 100}}

	got := cam.VisibleBounds()
	want := Rect{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50}
	if got != want {
		t.Errorf("VisibleBounds() with zero zoom = %+v, want %+v", got, want)
	}
}

func TestCameraProjectionMatrixCorners(t *testing.T) {
	cam := NewCamera(800, 600)
	p := cam.ProjectionMatrix()

	// Column-major: clip = p * (view, 1).
	project := func(x, y float32) (float32, float32) {
		return p[0]*x + p[4]*y + p[12], p[1]*x + p[5]*y + p[13]
	}

	if x, y := project(0, 0); !floatEq(x, -1) || !floatEq(y, 1) {
		t.Errorf("top-left = (%v, %v), want (-1, 1)", x, y)
	}
	if x, y := project(800, 600); !floatEq(x, 1) || !floatEq(y, -1) {
		t.Errorf("bottom-right = (%v, %v), want (1, -1)", x, y)
	}
}
