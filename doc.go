// Package blit provides a real-time 2D quad/sprite batch renderer for
// the GoGPU ecosystem.
//
// # Overview
//
// blit sits between game/application code and a low-level graphics
// backend. Each frame, draw requests are collected into a session,
// culled against the camera, grouped into the minimum number of draw
// calls under the backend's texture-slot limit, and handed to a
// submission backend in a single ordered list.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/blit"
//	    _ "github.com/gogpu/blit/backend/headless"
//	)
//
//	r, _ := blit.New(blit.DefaultConfig())
//	defer r.Shutdown()
//
//	tex, _ := r.Atlas().Register(pixels, 64, 64)
//
//	cam := blit.NewCamera(800, 600)
//	r.Begin(cam)
//	r.DrawQuad(blit.QuadRequest{
//	    Transform: blit.TranslateAffine(100, 100),
//	    Size:      blit.Vec2{X: 64, Y: 64},
//	    Texture:   tex,
//	    Tint:      blit.White,
//	})
//	err := r.End()
//
// # Architecture
//
// The library is organized into:
//   - Public API: Renderer, Session, Camera, QuadRequest, Batch
//   - atlas: texture atlas pages with append-only shelf packing
//   - backend: submission backend interface and registry
//   - source: texture file loading and decoding
//
// # Ordering
//
// Batches are emitted in layer order, and within a layer in submission
// order. Backends must issue draw calls in batch order; alpha-blended
// compositing depends on it.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
package blit
