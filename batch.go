package blit

import "github.com/gogpu/blit/atlas"

// BatchKind tags the primitive type of a batch.
type BatchKind uint8

const (
	// BatchQuads is an instanced quad batch sharing one index pattern.
	BatchQuads BatchKind = iota

	// BatchGeometry is a custom-geometry batch with its own vertex and
	// index data.
	BatchGeometry

	// BatchExternal is an opaque pre-batched unit from an external
	// collaborator, passed through unchanged.
	BatchExternal
)

// QuadIndexPattern is the shared index buffer for one quad: two
// triangles over four corners. Quad batches reuse it for every
// instance; backends replicate it with per-instance base offsets or
// use true instancing.
var QuadIndexPattern = [6]uint16{0, 1, 2, 2, 3, 0}

// Instance is the per-quad record of an instanced batch.
type Instance struct {
	// Transform maps the unit quad (0,0)-(1,1) to world space. Quad
	// size is folded into the matrix.
	Transform Affine

	// UV is the atlas region to sample: u0, v0, u1, v1 normalized to
	// the page.
	UV [4]float32

	// Tint multiplies the sampled color.
	Tint [4]float32

	// PageSlot indexes the batch's Pages list, selecting the texture
	// slot to sample from.
	PageSlot uint32
}

// Batch is the unit of work handed to the backend as one draw call.
//
// Batches arrive at the backend in draw order: ascending layer, and
// within a layer in submission order. A batch never references more
// distinct atlas pages than the backend's texture slot limit.
type Batch struct {
	// Kind is the primitive type of this batch.
	Kind BatchKind

	// Layer is the layer every entry of this batch belongs to.
	Layer int32

	// Pages lists the distinct atlas pages referenced by this batch,
	// in first-use order. Instance.PageSlot indexes into it.
	Pages []atlas.PageID

	// Instances holds the per-quad data (Kind == BatchQuads).
	Instances []Instance

	// Vertices and Indices hold custom geometry (Kind == BatchGeometry).
	Vertices []Vertex
	Indices  []uint16

	// External is the opaque unit (Kind == BatchExternal).
	External *ExternalUnit
}

// InstanceCount returns the number of draw instances in the batch.
func (b *Batch) InstanceCount() int {
	switch b.Kind {
	case BatchQuads:
		return len(b.Instances)
	case BatchGeometry, BatchExternal:
		return 1
	}
	return 0
}
