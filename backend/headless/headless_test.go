package headless_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend/headless"
)

func TestRegistersAsDefaultBackend(t *testing.T) {
	b := blit.GetBackend(blit.BackendHeadless)
	if b == nil {
		t.Fatal("headless backend not registered")
	}
	if _, ok := b.(*headless.Backend); !ok {
		t.Fatalf("registered factory returned %T", b)
	}
}

func TestRecordsSubmissionsAndUploads(t *testing.T) {
	b := headless.New()
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	dirty := image.Rect(0, 0, 16, 16)
	if err := b.UploadPage(0, image.NewRGBA(image.Rect(0, 0, 64, 64)), dirty); err != nil {
		t.Fatalf("UploadPage: %v", err)
	}

	cam := blit.NewCamera(800, 600)
	batches := []blit.Batch{{Kind: blit.BatchQuads, Instances: make([]blit.Instance, 3)}}
	if err := b.Submit(context.Background(), batches, cam); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if b.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", b.FrameCount())
	}
	last, ok := b.LastFrame()
	if !ok || len(last.Batches) != 1 || last.Camera.Viewport.X != 800 {
		t.Errorf("LastFrame() = %+v, %v", last, ok)
	}
	ups := b.Uploads()
	if len(ups) != 1 || ups[0].Page != 0 || ups[0].Dirty != dirty {
		t.Errorf("Uploads() = %+v, want one upload of page 0", ups)
	}
}

func TestSubmitClonesBatchList(t *testing.T) {
	b := headless.New()

	batches := []blit.Batch{{Kind: blit.BatchQuads, Layer: 1}}
	if err := b.Submit(context.Background(), batches, blit.Camera{}); err != nil {
		t.Fatal(err)
	}
	batches[0].Layer = 99

	last, _ := b.LastFrame()
	if last.Batches[0].Layer != 1 {
		t.Error("recorded frame aliases the caller's batch slice")
	}
}

func TestFailNextIsOneShot(t *testing.T) {
	b := headless.New()
	cause := errors.New("injected")

	b.FailNextSubmit(cause)
	if err := b.Submit(context.Background(), nil, blit.Camera{}); !errors.Is(err, cause) {
		t.Fatalf("first Submit = %v, want injected error", err)
	}
	if err := b.Submit(context.Background(), nil, blit.Camera{}); err != nil {
		t.Fatalf("second Submit = %v, want nil", err)
	}
	if b.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1 (failed submit records nothing)", b.FrameCount())
	}

	b.FailNextUpload(cause)
	if err := b.UploadPage(0, nil, image.Rectangle{}); !errors.Is(err, cause) {
		t.Fatalf("first UploadPage = %v, want injected error", err)
	}
	if err := b.UploadPage(0, nil, image.Rectangle{}); err != nil {
		t.Fatalf("second UploadPage = %v, want nil", err)
	}
}

func TestSubmitHonorsContext(t *testing.T) {
	b := headless.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Submit(ctx, nil, blit.Camera{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit(canceled) = %v, want context.Canceled", err)
	}
	if b.FrameCount() != 0 {
		t.Error("canceled Submit recorded a frame")
	}
}

func TestCapabilityOverrides(t *testing.T) {
	b := headless.New()

	if b.TextureSlotLimit() != 32 || b.MaxAtlasPageDimension() != 8192 {
		t.Fatalf("defaults = %d slots, %d max dim; want 32 and 8192",
			b.TextureSlotLimit(), b.MaxAtlasPageDimension())
	}
	b.SetTextureSlotLimit(4)
	b.SetMaxAtlasPageDimension(1024)
	b.SetSampleCount(4)
	if b.TextureSlotLimit() != 4 || b.MaxAtlasPageDimension() != 1024 || b.SampleCount() != 4 {
		t.Error("capability overrides not reported back")
	}
}

func TestResetAndClose(t *testing.T) {
	b := headless.New()
	if err := b.Submit(context.Background(), nil, blit.Camera{}); err != nil {
		t.Fatal(err)
	}

	b.Reset()
	if b.FrameCount() != 0 || len(b.Uploads()) != 0 {
		t.Error("Reset left recordings behind")
	}

	if err := b.Submit(context.Background(), nil, blit.Camera{}); err != nil {
		t.Fatal(err)
	}
	b.Close()
	if b.FrameCount() != 0 {
		t.Error("Close left recordings behind")
	}
}

// End-to-end: a renderer wired to the headless backend submits what it
// draws.
func TestRendererIntegration(t *testing.T) {
	hb := headless.New()
	r, err := blit.New(blit.DefaultConfig(), blit.WithBackend(hb))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Shutdown()

	sheet, err := r.Atlas().RegisterImage(image.NewRGBA(image.Rect(0, 0, 32, 32)))
	if err != nil {
		t.Fatalf("RegisterImage: %v", err)
	}

	if err := r.Begin(blit.NewCamera(800, 600)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		err := r.DrawQuad(blit.QuadRequest{
			Transform: blit.TranslateAffine(float32(i)*20, 50),
			Size:      blit.Vec2{X: 16, Y: 16},
			Texture:   sheet,
			Tint:      blit.White,
		})
		if err != nil {
			t.Fatalf("DrawQuad %d: %v", i, err)
		}
	}
	if err := r.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	last, ok := hb.LastFrame()
	if !ok {
		t.Fatal("no frame recorded")
	}
	if len(last.Batches) != 1 || len(last.Batches[0].Instances) != 10 {
		t.Errorf("recorded %d batches, first with %d instances; want 1 and 10",
			len(last.Batches), len(last.Batches[0].Instances))
	}
	if len(hb.Uploads()) == 0 {
		t.Error("atlas page never uploaded")
	}
}
