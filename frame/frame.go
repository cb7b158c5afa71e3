package frame

import (
	"image"
	"image/color"

	"github.com/achilleasa/lumen/types"
)

// A frame buffer holding unclamped shaded colors. Rows are written by
// tracers; each row is owned by exactly one block so no locking is needed.
type Frame struct {
	W, H   uint32
	Pixels []types.Color
}

// Allocate a new black frame.
func New(w, h uint32) *Frame {
	return &Frame{
		W:      w,
		H:      h,
		Pixels: make([]types.Color, int(w)*int(h)),
	}
}

// Get the color at pixel (x, y).
func (fr *Frame) At(x, y uint32) types.Color {
	return fr.Pixels[y*fr.W+x]
}

// Set the color at pixel (x, y).
func (fr *Frame) Set(x, y uint32, c types.Color) {
	fr.Pixels[y*fr.W+x] = c
}

// Get the pixels of row y.
func (fr *Frame) Row(y uint32) []types.Color {
	return fr.Pixels[y*fr.W : (y+1)*fr.W]
}

// Encode row y as packed 8-bit RGB triplets.
func (fr *Frame) RowRGB8(y uint32) []byte {
	row := fr.Row(y)
	out := make([]byte, 0, 3*len(row))
	for _, c := range row {
		r, g, b := c.RGB8()
		out = append(out, r, g, b)
	}
	return out
}

// Convert the frame to an 8-bit RGBA image.
func (fr *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fr.W), int(fr.H)))
	for y := uint32(0); y < fr.H; y++ {
		for x := uint32(0); x < fr.W; x++ {
			r, g, b := fr.At(x, y).RGB8()
			img.SetRGBA(int(x), int(y), color.RGBA{r, g, b, 255})
		}
	}
	return img
}
