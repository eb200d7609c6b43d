package blit

import (
	"runtime"
	"sync"
)

// parallelCullThreshold is the request count above which culling is
// chunked across goroutines. Below it the fan-out costs more than the
// work.
const parallelCullThreshold = 4096

// requestBounds returns the conservative world-space bounding box of a
// request. Quads transform their four corners; custom geometry takes
// the union box of its vertices, which are already in world space.
func requestBounds(req *request) Rect {
	switch req.kind {
	case kindQuad:
		local := RectFromSize(0, 0, req.quad.Size.X, req.quad.Size.Y)
		return req.quad.Transform.TransformRect(local)
	case kindGeometry:
		b := EmptyRect()
		for _, v := range req.verts {
			b = b.UnionPoint(v.Pos.X, v.Pos.Y)
		}
		return b
	case kindExternal:
		return req.external.Bounds
	}
	return EmptyRect()
}

// viewIntersects is the conservative visibility test against the
// camera's (possibly rotated) view rectangle. It may keep a request
// that is fully invisible, but never rejects one with any partial
// visibility: both tests are exact separating-axis checks on the two
// boxes, and touching edges count as visible.
func viewIntersects(b Rect, cam Camera) bool {
	if b.IsEmpty() {
		return false
	}
	// Axis test on the world axes: the request box against the view's
	// enclosing AABB.
	if !b.Intersects(cam.VisibleBounds()) {
		return false
	}
	if cam.Rotation == 0 {
		return true
	}

	// Axis test on the rotated view's own axes.
	axX, axY := cam.viewAxes()
	half := cam.viewHalfExtent()
	axes := [2]Vec2{axX, axY}
	extents := [2]float32{half.X, half.Y}

	corners := [4][2]float32{
		{b.MinX, b.MinY},
		{b.MaxX, b.MinY},
		{b.MaxX, b.MaxY},
		{b.MinX, b.MaxY},
	}
	for axis := 0; axis < 2; axis++ {
		ax := axes[axis]
		var lo, hi float32
		for i, c := range corners {
			d := ax.Dot(Vec2{X: c[0] - cam.Center.X, Y: c[1] - cam.Center.Y})
			if i == 0 || d < lo {
				lo = d
			}
			if i == 0 || d > hi {
				hi = d
			}
		}
		if hi < -extents[axis] || lo > extents[axis] {
			return false
		}
	}
	return true
}

// cullVisible drops requests with no possible visible contribution,
// preserving submission order. External units with empty bounds are
// always kept; the collaborator owns their visibility.
func cullVisible(reqs []request, cam Camera) []request {
	if len(reqs) == 0 {
		return reqs
	}

	keep := make([]bool, len(reqs))
	if len(reqs) < parallelCullThreshold {
		cullChunk(reqs, keep, cam, 0, len(reqs))
	} else {
		workers := runtime.GOMAXPROCS(0)
		chunk := (len(reqs) + workers - 1) / workers
		var wg sync.WaitGroup
		for lo := 0; lo < len(reqs); lo += chunk {
			hi := lo + chunk
			if hi > len(reqs) {
				hi = len(reqs)
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				cullChunk(reqs, keep, cam, lo, hi)
			}(lo, hi)
		}
		wg.Wait()
	}

	// Compact in place, keeping order.
	out := reqs[:0]
	for i := range reqs {
		if keep[i] {
			out = append(out, reqs[i])
		}
	}
	return out
}

func cullChunk(reqs []request, keep []bool, cam Camera, lo, hi int) {
	for i := lo; i < hi; i++ {
		req := &reqs[i]
		if req.kind == kindExternal && req.external.Bounds.IsEmpty() {
			keep[i] = true
			continue
		}
		keep[i] = viewIntersects(requestBounds(req), cam)
	}
}
