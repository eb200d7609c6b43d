package source

import "github.com/gogpu/blit"

// GridFrames slices a sprite sheet into cols x rows equal frames and
// returns their normalized UV sub-rectangles in row-major order. Pass
// a frame as QuadRequest.UV to draw it.
func GridFrames(cols, rows int) []blit.Rect {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	frames := make([]blit.Rect, 0, cols*rows)
	fw := 1 / float32(cols)
	fh := 1 / float32(rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			frames = append(frames, blit.Rect{
				MinX: float32(col) * fw,
				MinY: float32(row) * fh,
				MaxX: float32(col+1) * fw,
				MaxY: float32(row+1) * fh,
			})
		}
	}
	return frames
}
