package atlas

import (
	"image"
	"sync"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"
)

// Config holds atlas configuration.
type Config struct {
	// PageSize is the edge length of each page in pixels (width =
	// height). Must be a power of 2. Default: 4096.
	PageSize int

	// MaxPages limits the number of pages. Default: 32.
	MaxPages int

	// Padding between packed textures to prevent sampler bleeding.
	// Default: 2.
	Padding int
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: 4096,
		MaxPages: 32,
		Padding:  2,
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PageSize < 64 {
		return &ConfigError{Field: "PageSize", Reason: "must be at least 64"}
	}
	if c.PageSize&(c.PageSize-1) != 0 {
		return &ConfigError{Field: "PageSize", Reason: "must be power of 2"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	if c.MaxPages > 256 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at most 256"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.PageSize/4 {
		return &ConfigError{Field: "Padding", Reason: "must be less than a quarter of PageSize"}
	}
	return nil
}

// PageID identifies one atlas page.
type PageID uint32

// Handle is an opaque reference to a registered texture. Handles are
// immutable once issued and remain valid for the manager's lifetime.
// The zero Handle is invalid and resolves to nothing; the renderer
// maps it to the white texel.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was issued by a manager.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// Region describes a texture's location in the atlas.
type Region struct {
	// Page is the page holding the texture.
	Page PageID

	// Pixel rectangle within the page.
	X, Y, Width, Height int

	// Normalized UV coordinates for sampling.
	U0, V0, U1, V1 float32
}

// page is one atlas page: pixel storage plus packer state and the
// region touched since the last Flush.
type page struct {
	id     PageID
	pixels *image.RGBA
	packer *shelfPacker
	dirty  image.Rectangle
}

// snapshot is the immutable region table readers see. Registration
// replaces it wholesale, so Lookup never takes the manager lock.
type snapshot struct {
	regions []Region
}

// Manager owns atlas pages and resolves handles to page + UV data.
//
// Register is serialized; Lookup is lock-free against the latest
// snapshot, so batching a prior frame may overlap registration of
// future textures. Packing is append-only: once packed, a rect never
// moves (no defragmentation).
type Manager struct {
	mu    sync.Mutex
	cfg   Config
	pages []*page
	gen   uint32

	snap atomic.Pointer[snapshot]
}

// NewManager creates an atlas manager. A 1x1 white texel is registered
// immediately so that untextured quads have a region to sample; it
// occupies the first slot of the first page.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{cfg: cfg, gen: 1}
	m.snap.Store(&snapshot{})

	if _, err := m.Register([]byte{0xff, 0xff, 0xff, 0xff}, 1, 1); err != nil {
		return nil, err
	}
	return m, nil
}

// White returns the handle of the built-in 1x1 white texel.
func (m *Manager) White() Handle {
	return Handle{index: 0, gen: m.gen}
}

// Register packs an RGBA texture (4 bytes per pixel, row-major) into
// the atlas and returns its handle.
//
// When no existing page has room, a new page is allocated up to the
// configured maximum; beyond that Register fails with *CapacityError
// and no page is created. Capacity is reported here, never discovered
// mid-frame.
func (m *Manager) Register(pixels []byte, width, height int) (Handle, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return Handle{}, ErrBadPixels
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if width+m.cfg.Padding > m.cfg.PageSize || height+m.cfg.Padding > m.cfg.PageSize {
		return Handle{}, &CapacityError{
			Width: width, Height: height,
			Pages: len(m.pages), MaxPages: m.cfg.MaxPages,
			Oversized: true,
		}
	}

	var target *page
	for _, p := range m.pages {
		if p.packer.canFit(width, height) {
			target = p
			break
		}
	}
	if target == nil {
		if len(m.pages) >= m.cfg.MaxPages {
			return Handle{}, &CapacityError{
				Width: width, Height: height,
				Pages: len(m.pages), MaxPages: m.cfg.MaxPages,
			}
		}
		target = &page{
			id:     PageID(len(m.pages)),
			pixels: image.NewRGBA(image.Rect(0, 0, m.cfg.PageSize, m.cfg.PageSize)),
			packer: newShelfPacker(m.cfg.PageSize, m.cfg.PageSize, m.cfg.Padding),
		}
		m.pages = append(m.pages, target)
	}

	x, y, ok := target.packer.allocate(width, height)
	if !ok {
		// canFit said yes; allocate must agree.
		return Handle{}, &CapacityError{
			Width: width, Height: height,
			Pages: len(m.pages), MaxPages: m.cfg.MaxPages,
		}
	}

	src := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	dst := image.Rect(x, y, x+width, y+height)
	xdraw.Copy(target.pixels, dst.Min, src, src.Rect, xdraw.Src, nil)
	target.dirty = target.dirty.Union(dst)

	size := float32(m.cfg.PageSize)
	region := Region{
		Page:   target.id,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		U0:     float32(x) / size,
		V0:     float32(y) / size,
		U1:     float32(x+width) / size,
		V1:     float32(y+height) / size,
	}

	// Publish copy-on-write: readers keep the old table until the new
	// one is fully built.
	old := m.snap.Load()
	regions := make([]Region, len(old.regions)+1)
	copy(regions, old.regions)
	regions[len(old.regions)] = region
	m.snap.Store(&snapshot{regions: regions})

	//nolint:gosec // region count is bounded by page capacity
	return Handle{index: uint32(len(regions) - 1), gen: m.gen}, nil
}

// RegisterImage packs any image.Image, converting to RGBA as needed.
func (m *Manager) RegisterImage(img image.Image) (Handle, error) {
	if img == nil {
		return Handle{}, ErrBadPixels
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == image.Pt(0, 0) && rgba.Stride == b.Dx()*4 {
		return m.Register(rgba.Pix, b.Dx(), b.Dy())
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(rgba, image.Pt(0, 0), img, b, xdraw.Src, nil)
	return m.Register(rgba.Pix, b.Dx(), b.Dy())
}

// Lookup resolves a handle to its page and region. It never blocks on
// registration: the region table is read from the latest immutable
// snapshot.
func (m *Manager) Lookup(h Handle) (PageID, Region, error) {
	if h.gen != m.gen {
		return 0, Region{}, ErrInvalidHandle
	}
	snap := m.snap.Load()
	if int(h.index) >= len(snap.regions) {
		return 0, Region{}, ErrInvalidHandle
	}
	r := snap.regions[h.index]
	return r.Page, r, nil
}

// Flush drains pending pixel uploads. For every page touched since the
// last Flush, fn is called with the page's full pixel buffer and the
// dirty rectangle; the page is marked clean only if fn returns nil.
// Called by the renderer at frame boundaries so no page is uploaded
// while its UV data is being read mid-batch.
func (m *Manager) Flush(fn func(PageID, *image.RGBA, image.Rectangle) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pages {
		if p.dirty.Empty() {
			continue
		}
		if err := fn(p.id, p.pixels, p.dirty); err != nil {
			return err
		}
		p.dirty = image.Rectangle{}
	}
	return nil
}

// PageCount returns the number of pages currently allocated.
func (m *Manager) PageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// Len returns the number of registered textures, including the
// built-in white texel.
func (m *Manager) Len() int {
	return len(m.snap.Load().regions)
}

// Utilization returns the fraction of the page's area in use, or 0 for
// an unknown page.
func (m *Manager) Utilization(id PageID) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(id) >= len(m.pages) {
		return 0
	}
	return m.pages[id].packer.utilization()
}

// PageSize returns the configured page edge length in pixels.
func (m *Manager) PageSize() int {
	return m.cfg.PageSize
}
