package blit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/blit/atlas"
)

// Renderer is the top-level facade tying the frame session, culler,
// batcher, atlas manager, and submission backend together. It is the
// explicit renderer-wide context: create it with New, pass it where
// drawing happens, and release it with Shutdown. There is no implicit
// global state.
//
// At most one frame may be open at a time. Draw calls are safe from
// multiple goroutines while a frame is open; Begin, End, and Shutdown
// must not race each other.
type Renderer struct {
	cfg       Config
	backend   Backend
	atlas     *atlas.Manager
	session   *session
	slotLimit int
	closed    atomic.Bool
}

// New creates a renderer with the given configuration.
//
// The backend comes from WithBackend, WithBackendName, or the registry
// default (ErrNoBackend when none is registered). Configuration is
// clamped to the backend's capabilities: atlas page size to
// MaxAtlasPageDimension, slot limit to TextureSlotLimit.
func New(cfg Config, opts ...Option) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := o.backend
	if b == nil {
		if o.backendName != "" {
			b = GetBackend(o.backendName)
		} else {
			b = DefaultBackend()
		}
	}
	if b == nil {
		return nil, ErrNoBackend
	}

	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("blit: backend %q init: %w", b.Name(), err)
	}
	if sc, ok := b.(sampleCountSetter); ok && cfg.SampleCount > 1 {
		//nolint:gosec // validated to 1..8
		sc.SetSampleCount(uint32(cfg.SampleCount))
	}

	if maxDim := int(b.MaxAtlasPageDimension()); maxDim > 0 {
		for cfg.AtlasPageSize > maxDim {
			cfg.AtlasPageSize /= 2
		}
	}
	slotLimit := cfg.TextureSlotLimit
	if backendSlots := int(b.TextureSlotLimit()); backendSlots > 0 && backendSlots < slotLimit {
		slotLimit = backendSlots
	}

	am, err := atlas.NewManager(atlas.Config{
		PageSize: cfg.AtlasPageSize,
		MaxPages: cfg.MaxAtlasPages,
		Padding:  atlas.DefaultConfig().Padding,
	})
	if err != nil {
		b.Close()
		return nil, err
	}

	Logger().Info("blit: renderer initialized",
		"backend", b.Name(),
		"pageSize", cfg.AtlasPageSize,
		"maxPages", cfg.MaxAtlasPages,
		"slotLimit", slotLimit)

	return &Renderer{
		cfg:       cfg,
		backend:   b,
		atlas:     am,
		session:   newSession(cfg.MaxRequestsPerFrame),
		slotLimit: slotLimit,
	}, nil
}

// Atlas returns the texture atlas manager. Registration may proceed
// concurrently with drawing; new textures become resident at the next
// frame boundary.
func (r *Renderer) Atlas() *atlas.Manager {
	return r.atlas
}

// Backend returns the active submission backend.
func (r *Renderer) Backend() Backend {
	return r.backend
}

// Begin opens a frame with the given camera. It fails with
// ErrSessionOpen if a frame is already open, and clears the prior
// frame's buffers on success.
func (r *Renderer) Begin(cam Camera) error {
	if r.closed.Load() {
		return ErrShutdown
	}
	return r.session.begin(cam)
}

// DrawQuad records one quad for the open frame.
// Fails with ErrSessionClosed when no frame is open and ErrQueueFull
// when the per-frame request capacity is exceeded.
func (r *Renderer) DrawQuad(q QuadRequest) error {
	return r.session.drawQuad(q)
}

// DrawCustom records custom geometry: world-space vertices with their
// own index list, sampling the given texture. A custom-geometry
// request always becomes its own batch.
func (r *Renderer) DrawCustom(verts []Vertex, indices []uint16, tex atlas.Handle, layer int32) error {
	return r.session.drawCustom(verts, indices, tex, layer)
}

// DrawPrebatched records an opaque pre-batched draw unit from an
// external collaborator (an immediate-mode UI layer, typically). The
// unit is interleaved with the frame's own batches by layer and handed
// to the backend unchanged.
func (r *Renderer) DrawPrebatched(layer int32, unit ExternalUnit) error {
	return r.session.drawPrebatched(layer, unit)
}

// End closes the frame: culls, batches, uploads pending atlas pages,
// and submits to the backend, synchronously with respect to the
// caller.
//
// On backend failure the frame's batches are discarded in full, the
// session returns to Closed, and the error is surfaced as a
// *SubmitError; no partial frame is ever submitted. A frame with zero
// surviving requests produces no Submit call.
func (r *Renderer) End() error {
	return r.EndContext(context.Background())
}

// EndContext is End with a context governing the backend submission.
func (r *Renderer) EndContext(ctx context.Context) error {
	if r.closed.Load() {
		return ErrShutdown
	}

	reqs, cam, err := r.session.take()
	if err != nil {
		return err
	}
	submitted := len(reqs)

	visible := cullVisible(reqs, cam)
	batches := buildBatches(visible, r.atlas, r.slotLimit)

	// Frame boundary: make newly registered textures resident before
	// any draw call can sample them.
	if err := r.atlas.Flush(r.backend.UploadPage); err != nil {
		Logger().Warn("blit: frame dropped, page upload failed", "err", err)
		return &SubmitError{Backend: r.backend.Name(), Batches: len(batches), Err: err}
	}

	if len(batches) == 0 {
		Logger().Debug("blit: empty frame", "requests", submitted)
		return nil
	}

	if err := r.backend.Submit(ctx, batches, cam); err != nil {
		Logger().Warn("blit: frame dropped, submission failed",
			"backend", r.backend.Name(), "batches", len(batches), "err", err)
		return &SubmitError{Backend: r.backend.Name(), Batches: len(batches), Err: err}
	}

	Logger().Debug("blit: frame submitted",
		"requests", submitted, "visible", len(visible), "batches", len(batches))
	return nil
}

// Shutdown releases the renderer and its backend. The renderer must
// not be used afterwards; an open frame is dropped.
func (r *Renderer) Shutdown() {
	if r.closed.Swap(true) {
		return
	}
	r.backend.Close()
	Logger().Info("blit: renderer shut down", "backend", r.backend.Name())
}
