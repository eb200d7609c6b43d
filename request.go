package blit

import "github.com/gogpu/blit/atlas"

// QuadRequest describes one textured quad to draw this frame.
//
// The quad is the unit rectangle (0,0)-(1,1) scaled by Size and then
// transformed by Transform, so Transform carries position, rotation,
// and any extra scaling. Requests are owned by the frame: they are
// copied on submission and dropped once the frame's batches are
// emitted.
type QuadRequest struct {
	// Transform places the quad in world space.
	Transform Affine

	// Size is the quad extent in world units before Transform.
	Size Vec2

	// Texture selects the atlas region to sample. The zero Handle
	// draws the atlas white texel (a solid quad).
	Texture atlas.Handle

	// UV optionally selects a sub-rectangle of the texture in
	// normalized [0,1] coordinates, for sprite-sheet frames packed
	// inside one registered texture. The empty Rect means the full
	// texture.
	UV Rect

	// Tint multiplies the sampled color. The zero value draws nothing
	// visible; use White for an unmodified texture.
	Tint RGBA

	// Layer orders the quad relative to other requests. Lower layers
	// draw first. Requests on the same layer keep submission order.
	Layer int32
}

// Vertex is one vertex of a custom-geometry request, in world space.
type Vertex struct {
	Pos   Vec2
	UV    Vec2
	Color RGBA
}

// ExternalUnit is an opaque pre-batched draw unit supplied by an
// external collaborator (typically an immediate-mode UI layer). The
// core interleaves it with its own batches by layer and never
// re-batches or inspects the payload.
type ExternalUnit struct {
	// Bounds is the unit's world bounding box, used for culling.
	// An empty Rect marks the unit as always visible.
	Bounds Rect

	// Payload is handed to the backend unchanged.
	Payload any
}

// requestKind discriminates the frame queue entry types.
type requestKind uint8

const (
	kindQuad requestKind = iota
	kindGeometry
	kindExternal
)

// request is one frame queue entry. Only the fields for its kind are
// set. seq is the submission index used to keep ordering stable.
type request struct {
	kind  requestKind
	seq   uint32
	layer int32

	quad QuadRequest

	verts   []Vertex
	indices []uint16
	texture atlas.Handle

	external *ExternalUnit
}
