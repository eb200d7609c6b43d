package blit

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/gogpu/blit/atlas"
)

// buildBatches groups culled requests into the minimum number of draw
// calls under the texture slot limit.
//
// Requests are stable-sorted by layer, so submission order is kept
// within each layer. The walk accumulates quad instances into the
// current batch until the layer changes (a layer boundary always
// forces a new batch) or the batch's distinct-page set would exceed
// slotLimit. Custom geometry and external units always occupy a batch
// of their own.
//
// The result is deterministic: identical input produces identical
// grouping and instance order.
func buildBatches(reqs []request, am *atlas.Manager, slotLimit int) []Batch {
	if len(reqs) == 0 {
		return nil
	}

	slices.SortStableFunc(reqs, func(a, b request) int {
		return cmp.Compare(a.layer, b.layer)
	})

	var (
		batches []Batch
		cur     *Batch
	)
	flush := func() {
		if cur != nil && len(cur.Instances) > 0 {
			batches = append(batches, *cur)
		}
		cur = nil
	}

	log := Logger()
	for i := range reqs {
		req := &reqs[i]
		switch req.kind {
		case kindQuad:
			handle := req.quad.Texture
			if !handle.Valid() {
				handle = am.White()
			}
			pageID, region, err := am.Lookup(handle)
			if err != nil {
				// A stale handle from another manager. Registration
				// guarantees live handles always resolve.
				log.Warn("blit: dropping quad with unresolvable texture", "err", err)
				continue
			}

			if cur == nil || cur.Layer != req.layer {
				flush()
				cur = &Batch{Kind: BatchQuads, Layer: req.layer}
			}
			slot, ok := pageSlot(cur, pageID, slotLimit)
			if !ok {
				flush()
				cur = &Batch{Kind: BatchQuads, Layer: req.layer}
				slot, _ = pageSlot(cur, pageID, slotLimit)
			}

			cur.Instances = append(cur.Instances, Instance{
				Transform: req.quad.Transform.Multiply(
					ScaleAffine(req.quad.Size.X, req.quad.Size.Y)),
				UV:       remapUV(region, req.quad.UV),
				Tint:     req.quad.Tint.Array(),
				PageSlot: slot,
			})

		case kindGeometry:
			flush()
			batches = append(batches, geometryBatch(req, am, log))

		case kindExternal:
			flush()
			batches = append(batches, Batch{
				Kind:     BatchExternal,
				Layer:    req.layer,
				External: req.external,
			})
		}
	}
	flush()

	return batches
}

// pageSlot returns the index of pageID in the batch's page set,
// growing the set when there is a free slot. ok is false when the set
// is full and pageID is not in it.
func pageSlot(b *Batch, id atlas.PageID, slotLimit int) (uint32, bool) {
	for i, p := range b.Pages {
		if p == id {
			//nolint:gosec // page set is bounded by slotLimit
			return uint32(i), true
		}
	}
	if len(b.Pages) >= slotLimit {
		return 0, false
	}
	b.Pages = append(b.Pages, id)
	//nolint:gosec // page set is bounded by slotLimit
	return uint32(len(b.Pages) - 1), true
}

// remapUV maps a request's normalized sub-rectangle into the page UV
// space of the texture's region. The empty sub-rect selects the full
// texture.
func remapUV(r atlas.Region, sub Rect) [4]float32 {
	if sub.IsEmpty() {
		return [4]float32{r.U0, r.V0, r.U1, r.V1}
	}
	du := r.U1 - r.U0
	dv := r.V1 - r.V0
	return [4]float32{
		r.U0 + sub.MinX*du,
		r.V0 + sub.MinY*dv,
		r.U0 + sub.MaxX*du,
		r.V0 + sub.MaxY*dv,
	}
}

// geometryBatch builds the dedicated batch for one custom-geometry
// request. Vertex UVs are remapped from texture space into the page
// space of the resolved region so the backend samples pages uniformly.
func geometryBatch(req *request, am *atlas.Manager, log *slog.Logger) Batch {
	handle := req.texture
	if !handle.Valid() {
		handle = am.White()
	}

	b := Batch{
		Kind:    BatchGeometry,
		Layer:   req.layer,
		Indices: slices.Clone(req.indices),
	}

	pageID, region, err := am.Lookup(handle)
	if err != nil {
		log.Warn("blit: custom geometry with unresolvable texture, using white texel", "err", err)
		pageID, region, _ = am.Lookup(am.White())
	}
	b.Pages = []atlas.PageID{pageID}

	du := region.U1 - region.U0
	dv := region.V1 - region.V0
	b.Vertices = make([]Vertex, len(req.verts))
	for i, v := range req.verts {
		v.UV = Vec2{
			X: region.U0 + v.UV.X*du,
			Y: region.V0 + v.UV.Y*dv,
		}
		b.Vertices[i] = v
	}
	return b
}
