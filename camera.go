package blit

import "math"

// Camera describes the view for one frame: what part of the world is
// visible and how world coordinates map to clip space.
//
// The view is a rectangle of Viewport/Zoom world units centered on
// Center, rotated by Rotation radians. Zoom > 1 magnifies.
//
//	cam := blit.NewCamera(800, 600)
//	cam.Center = blit.Vec2{X: player.X, Y: player.Y}
//	cam.Zoom = 2
type Camera struct {
	// Center is the world point at the middle of the view.
	Center Vec2

	// Viewport is the output extent in pixels.
	Viewport Vec2

	// Rotation is the view rotation in radians.
	Rotation float32

	// Zoom scales world units to pixels. Must be > 0.
	Zoom float32
}

// NewCamera returns an unrotated camera at the world origin covering a
// width x height viewport at zoom 1.
func NewCamera(width, height float32) Camera {
	return Camera{
		Center:   Vec2{X: width / 2, Y: height / 2},
		Viewport: Vec2{X: width, Y: height},
		Zoom:     1,
	}
}

// viewHalfExtent returns half the view size in world units.
func (c Camera) viewHalfExtent() Vec2 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return Vec2{X: c.Viewport.X / (2 * zoom), Y: c.Viewport.Y / (2 * zoom)}
}

// VisibleBounds returns the axis-aligned bounding box of the (possibly
// rotated) view rectangle in world space. The box is conservative: it
// contains every visible world point.
func (c Camera) VisibleBounds() Rect {
	half := c.viewHalfExtent()
	if c.Rotation == 0 {
		return Rect{
			MinX: c.Center.X - half.X,
			MinY: c.Center.Y - half.Y,
			MaxX: c.Center.X + half.X,
			MaxY: c.Center.Y + half.Y,
		}
	}
	rot := RotateAffine(c.Rotation)
	out := EmptyRect()
	for _, corner := range [4][2]float32{
		{-half.X, -half.Y},
		{half.X, -half.Y},
		{half.X, half.Y},
		{-half.X, half.Y},
	} {
		x, y := rot.TransformPoint(corner[0], corner[1])
		out = out.UnionPoint(c.Center.X+x, c.Center.Y+y)
	}
	return out
}

// viewAxes returns the two unit axes of the rotated view rectangle.
func (c Camera) viewAxes() (Vec2, Vec2) {
	cos := float32(math.Cos(float64(c.Rotation)))
	sin := float32(math.Sin(float64(c.Rotation)))
	return Vec2{X: cos, Y: sin}, Vec2{X: -sin, Y: cos}
}

// ViewMatrix returns the world-to-view transform: world coordinates to
// pixel coordinates with the view origin at the top-left.
func (c Camera) ViewMatrix() Affine {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	m := TranslateAffine(c.Viewport.X/2, c.Viewport.Y/2)
	m = m.Multiply(ScaleAffine(zoom, zoom))
	m = m.Multiply(RotateAffine(-c.Rotation))
	return m.Multiply(TranslateAffine(-c.Center.X, -c.Center.Y))
}

// ProjectionMatrix returns a 4x4 column-major matrix mapping view
// pixel coordinates to clip space, suitable for a uniform buffer.
// Y is flipped so that y-down world coordinates render upright.
func (c Camera) ProjectionMatrix() [16]float32 {
	sX, sY := c.Viewport.X, c.Viewport.Y
	if sX == 0 {
		sX = 1
	}
	if sY == 0 {
		sY = 1
	}
	return [16]float32{
		2 / sX, 0, 0, 0,
		0, -2 / sY, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}
