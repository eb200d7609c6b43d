package blit

import (
	"context"
	"image"
	"sync"

	"github.com/gogpu/blit/atlas"
)

// Well-known backend names.
const (
	// BackendWGPU is the GPU backend built on gogpu/wgpu.
	BackendWGPU = "wgpu"

	// BackendHeadless records submissions without a GPU. Used by tests
	// and tools.
	BackendHeadless = "headless"
)

// Backend is the submission boundary of the renderer. It receives the
// ordered batch list produced by a frame and issues the actual draw
// calls.
//
// Backends must issue draw calls in batch order; transparency
// compositing depends on it. The core never branches on backend
// identity: everything it needs is exposed through capability queries.
//
// Backends are registered via RegisterBackend and are selected via
// GetBackend or DefaultBackend.
type Backend interface {
	// Name returns the backend identifier (e.g., "wgpu", "headless").
	Name() string

	// Init initializes the backend. Called once before any other use.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// TextureSlotLimit returns the number of atlas pages one draw call
	// may sample from. The batcher never emits a batch referencing more
	// distinct pages than this.
	TextureSlotLimit() uint32

	// MaxAtlasPageDimension returns the largest page edge the backend
	// supports. The atlas manager clamps its page size to this at init.
	MaxAtlasPageDimension() uint32

	// UploadPage makes the dirty region of an atlas page resident on
	// the device. Called at frame boundaries, never mid-frame.
	UploadPage(id atlas.PageID, pixels *image.RGBA, dirty image.Rectangle) error

	// Submit issues draw calls for the ordered batch list. On error the
	// caller discards the frame; no partial frame may remain visible.
	Submit(ctx context.Context, batches []Batch, camera Camera) error
}

// sampleCountSetter is implemented by backends that support
// multisampled targets. The renderer propagates Config.SampleCount
// through it at init.
type sampleCountSetter interface {
	SetSampleCount(n uint32)
}

// BackendFactory creates a new backend instance.
type BackendFactory func() Backend

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendWGPU, BackendHeadless}
)

// RegisterBackend registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// UnregisterBackend removes a backend from the registry.
// This is useful for testing.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// AvailableBackends returns a list of registered backend names.
func AvailableBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// GetBackend returns a backend instance by name.
// Returns nil if the backend is not registered.
func GetBackend(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// DefaultBackend returns the best available backend based on priority.
// Priority order: wgpu > headless.
// Returns nil if no backends are registered.
func DefaultBackend() Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}

	// Fallback: return first available
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}

	return nil
}
