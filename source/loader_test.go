package source

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/gogpu/blit/atlas"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fs.FS {
	t.Helper()
	return fstest.MapFS{
		"sprites/hero.png": &fstest.MapFile{
			Data: encodePNG(t, 16, 16, color.RGBA{R: 255, A: 255}),
		},
		"sprites/tile.png": &fstest.MapFile{
			Data: encodePNG(t, 8, 8, color.RGBA{G: 255, A: 255}),
		},
		"broken.png": &fstest.MapFile{Data: []byte("not a png")},
	}
}

func newLoader(t *testing.T) (*Loader, *atlas.Manager) {
	t.Helper()
	am, err := atlas.NewManager(atlas.DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewLoader(am, WithFS(testFS(t))), am
}

func TestLoadRegistersImage(t *testing.T) {
	l, am := newLoader(t)

	h, err := l.Load("sprites/hero.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !h.Valid() {
		t.Fatal("Load returned an invalid handle")
	}
	_, region, err := am.Lookup(h)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if region.Width != 16 || region.Height != 16 {
		t.Errorf("region = %dx%d, want 16x16", region.Width, region.Height)
	}
}

func TestLoadCachesHandle(t *testing.T) {
	l, am := newLoader(t)

	first, err := l.Load("sprites/tile.png")
	if err != nil {
		t.Fatal(err)
	}
	before := am.Len()
	second, err := l.Load("sprites/tile.png")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("repeated Load returned a different handle")
	}
	if am.Len() != before {
		t.Error("repeated Load registered the image again")
	}
}

func TestLoadEvict(t *testing.T) {
	l, am := newLoader(t)

	first, err := l.Load("sprites/tile.png")
	if err != nil {
		t.Fatal(err)
	}
	l.Evict("sprites/tile.png")
	second, err := l.Load("sprites/tile.png")
	if err != nil {
		t.Fatal(err)
	}
	// The atlas is append-only: eviction drops the cache entry, so the
	// image registers again under a new handle.
	if first == second {
		t.Error("Evict did not drop the cached handle")
	}
	if am.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (white + two registrations)", am.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	l, _ := newLoader(t)

	if _, err := l.Load("sprites/nope.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load(missing) = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadUndecodableFile(t *testing.T) {
	l, _ := newLoader(t)

	if _, err := l.Load("broken.png"); err == nil {
		t.Fatal("Load(broken) succeeded, want decode error")
	}
	// Failures are not cached; a retry hits the decoder again.
	if _, err := l.Load("broken.png"); err == nil {
		t.Fatal("retry of broken file succeeded")
	}
}

func TestLoadImageConvertsToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatal(err)
	}
	am, err := atlas.NewManager(atlas.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(am, WithFS(fstest.MapFS{
		"gray.png": &fstest.MapFile{Data: buf.Bytes()},
	}))

	img, err := l.LoadImage("gray.png")
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded bounds = %v, want 4x4", img.Bounds())
	}
}

func TestLoadConcurrent(t *testing.T) {
	l, am := newLoader(t)

	const workers = 16
	var wg sync.WaitGroup
	handles := make([]atlas.Handle, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := l.Load("sprites/hero.png")
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if handles[i] != handles[0] {
			t.Fatal("concurrent loads returned different handles")
		}
	}
	// Concurrent first loads share one registration.
	if am.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (white + hero)", am.Len())
	}
}
