package bitmap

import (
	"image"
	"image/color"
)

// newSolidImage creates an opaque image filled with c.
func newSolidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// newSolidBitmap creates a bitmap filled with c at the given scale.
func newSolidBitmap(width, height int, c color.NRGBA, scale float64) *Bitmap {
	return New(newSolidImage(width, height, c), scale)
}

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)
