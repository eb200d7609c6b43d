package atlas

import "testing"

func TestShelfPackerFillsRowsLeftToRight(t *testing.T) {
	p := newShelfPacker(100, 100, 0)

	x0, y0, ok := p.allocate(40, 10)
	if !ok || x0 != 0 || y0 != 0 {
		t.Fatalf("first allocation at (%d, %d), want (0, 0)", x0, y0)
	}
	x1, y1, ok := p.allocate(40, 10)
	if !ok || x1 != 40 || y1 != 0 {
		t.Fatalf("second allocation at (%d, %d), want (40, 0)", x1, y1)
	}

	// No room left on the shelf; a new shelf opens below.
	x2, y2, ok := p.allocate(40, 10)
	if !ok || x2 != 0 || y2 != 10 {
		t.Fatalf("third allocation at (%d, %d), want (0, 10)", x2, y2)
	}
}

func TestShelfPackerPadding(t *testing.T) {
	p := newShelfPacker(100, 100, 2)

	_, _, ok := p.allocate(10, 10)
	if !ok {
		t.Fatal("first allocation failed")
	}
	x, y, ok := p.allocate(10, 10)
	if !ok || x != 12 || y != 0 {
		t.Fatalf("padded neighbor at (%d, %d), want (12, 0)", x, y)
	}
}

func TestShelfPackerLastShelfGrows(t *testing.T) {
	p := newShelfPacker(100, 100, 0)

	if _, _, ok := p.allocate(10, 5); !ok {
		t.Fatal("seed allocation failed")
	}
	// Taller than the open shelf: the last shelf may grow downward.
	x, y, ok := p.allocate(10, 20)
	if !ok || x != 10 || y != 0 {
		t.Fatalf("tall allocation at (%d, %d), want (10, 0) on grown shelf", x, y)
	}
	// The next shelf starts below the grown height.
	_, y2, ok := p.allocate(100, 10)
	if !ok || y2 != 20 {
		t.Fatalf("next shelf at y=%d, want 20", y2)
	}
}

func TestShelfPackerRejectsWhenFull(t *testing.T) {
	p := newShelfPacker(64, 64, 0)

	if _, _, ok := p.allocate(64, 64); !ok {
		t.Fatal("full-page allocation failed")
	}
	if _, _, ok := p.allocate(1, 1); ok {
		t.Error("allocation succeeded on a full packer")
	}
	if p.canFit(1, 1) {
		t.Error("canFit reported room on a full packer")
	}
}

func TestShelfPackerCanFitAgreesWithAllocate(t *testing.T) {
	p := newShelfPacker(64, 64, 2)

	sizes := [][2]int{{30, 30}, {30, 30}, {20, 10}, {60, 20}, {10, 10}}
	for _, s := range sizes {
		fit := p.canFit(s[0], s[1])
		_, _, ok := p.allocate(s[0], s[1])
		if fit != ok {
			t.Fatalf("canFit(%d, %d) = %v but allocate = %v", s[0], s[1], fit, ok)
		}
	}
}

func TestShelfPackerUtilization(t *testing.T) {
	p := newShelfPacker(100, 100, 0)

	if got := p.utilization(); got != 0 {
		t.Errorf("empty packer utilization = %v, want 0", got)
	}
	p.allocate(50, 50)
	if got := p.utilization(); got != 0.25 {
		t.Errorf("utilization = %v, want 0.25", got)
	}
}
