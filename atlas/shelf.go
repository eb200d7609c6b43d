package atlas

// shelfPacker packs rectangles into a fixed area using horizontal
// shelves. Items are placed left-to-right on the current shelf; a new
// shelf opens below when no existing shelf has room. Simple, fast, and
// append-only, which is all the atlas needs: packed rects are never
// reclaimed.
type shelfPacker struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
}

// shelf is one horizontal strip.
type shelf struct {
	y      int // top of the strip
	height int // tallest item placed so far
	x      int // next free slot
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w x h rectangle and reserves it.
// Returns the position and true, or false when the packer is out of room.
func (p *shelfPacker) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+paddedW > p.width {
			continue
		}
		if h > s.height {
			// Taller than the shelf. The last shelf may grow downward
			// if nothing has been placed below it yet.
			if i == len(p.shelves)-1 && s.y+paddedH <= p.height {
				s.height = h
				x, y = s.x, s.y
				s.x += paddedW
				p.usedArea += w * h
				return x, y, true
			}
			continue
		}
		x, y = s.x, s.y
		s.x += paddedW
		p.usedArea += w * h
		return x, y, true
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height + p.padding
	}
	if newY+paddedH > p.height {
		return 0, 0, false
	}

	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	p.usedArea += w * h
	return 0, newY, true
}

// canFit reports whether a w x h rectangle could be allocated, without
// reserving anything.
func (p *shelfPacker) canFit(w, h int) bool {
	paddedW := w + p.padding
	paddedH := h + p.padding

	if paddedW > p.width || paddedH > p.height {
		return false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+paddedW > p.width {
			continue
		}
		if h <= s.height {
			return true
		}
		if i == len(p.shelves)-1 && s.y+paddedH <= p.height {
			return true
		}
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height + p.padding
	}
	return newY+paddedH <= p.height
}

// utilization returns the fraction of the area covered by items.
func (p *shelfPacker) utilization() float64 {
	total := p.width * p.height
	if total <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}
