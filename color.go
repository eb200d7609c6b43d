package blit

// RGBA is a color tint with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Values are straight (not
// premultiplied); backends premultiply during blending as needed.
type RGBA struct {
	R, G, B, A float32
}

// Common tints.
var (
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Black       = RGBA{R: 0, G: 0, B: 0, A: 1}
	Transparent = RGBA{}
)

// RGB creates an opaque tint from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns the tint with its alpha replaced.
func (c RGBA) WithAlpha(a float32) RGBA {
	c.A = a
	return c
}

// IsOpaque returns true if the tint does not require alpha blending.
func (c RGBA) IsOpaque() bool {
	return c.A >= 1
}

// Array returns the components as a flat array, the layout used by
// per-instance GPU data.
func (c RGBA) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
