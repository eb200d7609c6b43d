package blit

import (
	"math"
	"slices"
	"testing"

	"github.com/gogpu/blit/atlas"
)

func makeBenchRequests(n int) []request {
	reqs := make([]request, n)
	for i := range reqs {
		reqs[i] = request{
			kind: kindQuad,
			seq:  uint32(i),
			quad: QuadRequest{
				Transform: TranslateAffine(float32(i%800), float32(i%600)).
					Multiply(RotateAffine(float32(i) * 0.01)),
				Size:  Vec2{X: 32, Y: 32},
				Tint:  White,
				Layer: int32(i % 8),
			},
		}
	}
	return reqs
}

func BenchmarkCullVisible(b *testing.B) {
	cam := NewCamera(800, 600)
	reqs := makeBenchRequests(10000)
	scratch := make([]request, len(reqs))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(scratch, reqs)
		cullVisible(scratch, cam)
	}
}

func BenchmarkBuildBatches(b *testing.B) {
	am, err := atlas.NewManager(atlas.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	reqs := makeBenchRequests(10000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buildBatches(slices.Clone(reqs), am, 16)
	}
}

func BenchmarkAffineMultiply(b *testing.B) {
	m := TranslateAffine(100, 50)
	r := RotateAffine(math.Pi / 3)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m = m.Multiply(r)
	}
	_ = m
}
