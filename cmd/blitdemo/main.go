// Command blitdemo exercises the batch renderer end to end: it builds
// a procedural sprite sheet, draws an animated field of sprites for a
// number of frames, and reports batching statistics per frame.
//
// It runs against the headless backend by default, so it works without
// a GPU. Pass -backend wgpu to submit real GPU frames.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend/headless"
	_ "github.com/gogpu/blit/backend/wgpu"
	"github.com/gogpu/blit/source"
)

func main() {
	var (
		width       = flag.Int("width", 800, "viewport width")
		height      = flag.Int("height", 600, "viewport height")
		frames      = flag.Int("frames", 60, "frames to render")
		sprites     = flag.Int("sprites", 2000, "sprites per frame")
		backendName = flag.String("backend", blit.BackendHeadless, "submission backend")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	r, err := blit.New(blit.DefaultConfig(), blit.WithBackendName(*backendName))
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer r.Shutdown()

	sheet, err := r.Atlas().RegisterImage(makeSheet(128, 4))
	if err != nil {
		log.Fatalf("register sprite sheet: %v", err)
	}
	uvFrames := source.GridFrames(4, 4)

	cam := blit.NewCamera(float32(*width), float32(*height))

	for frame := 0; frame < *frames; frame++ {
		t := float32(frame) / 60

		cam.Zoom = 1 + 0.25*float32(math.Sin(float64(t)))
		cam.Rotation = 0.1 * float32(math.Sin(float64(t)*0.5))

		if err := r.Begin(cam); err != nil {
			log.Fatalf("begin frame %d: %v", frame, err)
		}

		for i := 0; i < *sprites; i++ {
			fi := float32(i)
			x := float32(math.Mod(float64(fi*37+t*40), float64(*width)))
			y := float32(math.Mod(float64(fi*61), float64(*height)))
			err := r.DrawQuad(blit.QuadRequest{
				Transform: blit.TranslateAffine(x, y).
					Multiply(blit.RotateAffine(t + fi*0.01)),
				Size:    blit.Vec2{X: 32, Y: 32},
				Texture: sheet,
				UV:      uvFrames[i%len(uvFrames)],
				Tint:    blit.RGB(0.5+0.5*float32(math.Sin(float64(fi))), 0.7, 1),
				Layer:   int32(i % 4),
			})
			if err != nil {
				log.Fatalf("draw sprite %d: %v", i, err)
			}
		}

		// An untextured overlay quad on the top layer.
		if err := r.DrawQuad(blit.QuadRequest{
			Transform: blit.TranslateAffine(10, 10),
			Size:      blit.Vec2{X: 120, Y: 20},
			Tint:      blit.RGBA{R: 0, G: 0, B: 0, A: 0.5},
			Layer:     100,
		}); err != nil {
			log.Fatalf("draw overlay: %v", err)
		}

		if err := r.End(); err != nil {
			log.Fatalf("end frame %d: %v", frame, err)
		}
	}

	if hb, ok := r.Backend().(*headless.Backend); ok {
		report(hb)
	}
	log.Printf("rendered %d frames of %d sprites on %q", *frames, *sprites, r.Backend().Name())
}

// report prints batching statistics recorded by the headless backend.
func report(hb *headless.Backend) {
	recorded := hb.Frames()
	if len(recorded) == 0 {
		return
	}
	var batches, instances int
	for _, f := range recorded {
		batches += len(f.Batches)
		for i := range f.Batches {
			instances += f.Batches[i].InstanceCount()
		}
	}
	log.Printf("frames=%d batches/frame=%.1f instances/frame=%.1f",
		len(recorded),
		float64(batches)/float64(len(recorded)),
		float64(instances)/float64(len(recorded)))
}

// makeSheet builds a cols x cols sprite sheet of size x size pixels,
// each cell filled with a distinct solid color and a darker border.
func makeSheet(size, cols int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cols
	for cy := 0; cy < cols; cy++ {
		for cx := 0; cx < cols; cx++ {
			idx := cy*cols + cx
			fill := color.RGBA{
				R: uint8(40 + idx*13),
				G: uint8(200 - idx*9),
				B: uint8(90 + idx*7),
				A: 255,
			}
			border := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 255}
			for y := 0; y < cell; y++ {
				for x := 0; x < cell; x++ {
					c := fill
					if x == 0 || y == 0 || x == cell-1 || y == cell-1 {
						c = border
					}
					img.SetRGBA(cx*cell+x, cy*cell+y, c)
				}
			}
		}
	}
	return img
}
