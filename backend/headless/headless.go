// Package headless provides a submission backend that records frames
// instead of issuing GPU work. It backs tests, tools, and CI runs
// where no adapter is available.
//
// Import it for side effects to make it selectable:
//
//	import _ "github.com/gogpu/blit/backend/headless"
package headless

import (
	"context"
	"image"
	"slices"
	"sync"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/atlas"
)

func init() {
	blit.RegisterBackend(blit.BackendHeadless, func() blit.Backend {
		return New()
	})
}

// Frame is one recorded Submit call.
type Frame struct {
	Batches []blit.Batch
	Camera  blit.Camera
}

// Upload is one recorded UploadPage call.
type Upload struct {
	Page  atlas.PageID
	Dirty image.Rectangle
}

// Backend records every submission and upload it receives. All methods
// are safe for concurrent use.
//
// The zero value is not usable; call New.
type Backend struct {
	mu          sync.Mutex
	initialized bool
	slotLimit   uint32
	maxDim      uint32
	sampleCount uint32
	frames      []Frame
	uploads     []Upload
	failSubmit  error
	failUpload  error
}

// New creates a headless backend with generous default capabilities
// (32 texture slots, 8192 max page dimension).
func New() *Backend {
	return &Backend{
		slotLimit:   32,
		maxDim:      8192,
		sampleCount: 1,
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return blit.BackendHeadless }

// Init marks the backend ready. It never fails.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	return nil
}

// Close releases the recording buffers.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = false
	b.frames = nil
	b.uploads = nil
}

// TextureSlotLimit returns the configured slot count.
func (b *Backend) TextureSlotLimit() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slotLimit
}

// MaxAtlasPageDimension returns the configured page size ceiling.
func (b *Backend) MaxAtlasPageDimension() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxDim
}

// SetTextureSlotLimit overrides the reported slot count. Call before
// the backend is handed to a renderer.
func (b *Backend) SetTextureSlotLimit(n uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slotLimit = n
}

// SetMaxAtlasPageDimension overrides the reported page size ceiling.
func (b *Backend) SetMaxAtlasPageDimension(n uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxDim = n
}

// SetSampleCount records the requested multisample count.
func (b *Backend) SetSampleCount(n uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sampleCount = n
}

// SampleCount returns the last value passed to SetSampleCount.
func (b *Backend) SampleCount() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sampleCount
}

// UploadPage records the upload. With a pending FailNextUpload error
// it consumes and returns that error instead.
func (b *Backend) UploadPage(id atlas.PageID, pixels *image.RGBA, dirty image.Rectangle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failUpload; err != nil {
		b.failUpload = nil
		return err
	}
	b.uploads = append(b.uploads, Upload{Page: id, Dirty: dirty})
	return nil
}

// Submit records the frame. The batch list is cloned, so the caller
// may reuse its buffers. With a pending FailNextSubmit error it
// consumes and returns that error and records nothing.
func (b *Backend) Submit(ctx context.Context, batches []blit.Batch, camera blit.Camera) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failSubmit; err != nil {
		b.failSubmit = nil
		return err
	}
	b.frames = append(b.frames, Frame{
		Batches: slices.Clone(batches),
		Camera:  camera,
	})
	return nil
}

// FailNextSubmit makes the next Submit call fail with err.
func (b *Backend) FailNextSubmit(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failSubmit = err
}

// FailNextUpload makes the next UploadPage call fail with err.
func (b *Backend) FailNextUpload(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failUpload = err
}

// Frames returns all recorded frames in submission order.
func (b *Backend) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.frames)
}

// LastFrame returns the most recent frame and whether one exists.
func (b *Backend) LastFrame() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	return b.frames[len(b.frames)-1], true
}

// FrameCount returns the number of recorded frames.
func (b *Backend) FrameCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// Uploads returns all recorded page uploads in order.
func (b *Backend) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.uploads)
}

// Reset drops all recorded frames and uploads.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = nil
	b.uploads = nil
}
