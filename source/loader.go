package source

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/singleflight"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/atlas"
)

// Loader reads images from a filesystem, decodes them, and registers
// them with an atlas manager. It is safe for concurrent use: repeated
// loads of one file return the cached handle, and concurrent first
// loads share a single decode.
type Loader struct {
	fsys  fs.FS
	am    *atlas.Manager
	cache *expirable.LRU[string, atlas.Handle]
	group singleflight.Group
}

// Option configures a Loader.
type Option func(*loaderOptions)

type loaderOptions struct {
	fsys      fs.FS
	cacheSize int
	cacheTTL  time.Duration
}

// WithFS reads files from fsys instead of the host filesystem. Use
// this with embed.FS for bundled assets.
func WithFS(fsys fs.FS) Option {
	return func(o *loaderOptions) {
		o.fsys = fsys
	}
}

// WithCacheSize bounds the handle cache. Default 256 entries.
func WithCacheSize(n int) Option {
	return func(o *loaderOptions) {
		o.cacheSize = n
	}
}

// WithCacheTTL expires cached handles after d. Zero (the default)
// keeps entries until evicted by size.
func WithCacheTTL(d time.Duration) Option {
	return func(o *loaderOptions) {
		o.cacheTTL = d
	}
}

// NewLoader creates a loader registering into am.
func NewLoader(am *atlas.Manager, opts ...Option) *Loader {
	o := loaderOptions{
		fsys:      os.DirFS("."),
		cacheSize: 256,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{
		fsys:  o.fsys,
		am:    am,
		cache: expirable.NewLRU[string, atlas.Handle](o.cacheSize, nil, o.cacheTTL),
	}
}

// Load returns the atlas handle for the image at name, decoding and
// registering it on first use.
//
// A cached handle may have been invalidated if the atlas manager was
// replaced; callers holding handles across manager lifetimes should
// create a fresh loader as well.
func (l *Loader) Load(name string) (atlas.Handle, error) {
	if h, ok := l.cache.Get(name); ok {
		return h, nil
	}

	v, err, shared := l.group.Do(name, func() (any, error) {
		// A load that finished between the cache check and here already
		// registered the image.
		if h, ok := l.cache.Get(name); ok {
			return h, nil
		}
		img, err := l.LoadImage(name)
		if err != nil {
			return atlas.Handle{}, err
		}
		h, err := l.am.RegisterImage(img)
		if err != nil {
			return atlas.Handle{}, fmt.Errorf("source: register %s: %w", name, err)
		}
		l.cache.Add(name, h)
		return h, nil
	})
	if err != nil {
		return atlas.Handle{}, err
	}
	if shared {
		blit.Logger().Debug("source: coalesced concurrent load", "name", name)
	}
	return v.(atlas.Handle), nil
}

// LoadImage decodes the image at name into RGBA without registering
// it.
func (l *Loader) LoadImage(name string) (*image.RGBA, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", name, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", name, err)
	}
	blit.Logger().Debug("source: decoded image",
		"name", name, "format", format, "bounds", img.Bounds())

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// Evict drops the cached handle for name. The atlas region itself is
// not reclaimed; the atlas is append-only.
func (l *Loader) Evict(name string) {
	l.cache.Remove(name)
}
