package bitmap

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

// Bitmap is a decoded image that can be queried, cropped and searched.
type Bitmap struct {
	buf *PixelBuffer
}

// New copies img into a new Bitmap with the given scale.
func New(img image.Image, scale float64) *Bitmap {
	return &Bitmap{buf: NewPixelBuffer(img, scale)}
}

// FromBuffer wraps an existing buffer.
func FromBuffer(buf *PixelBuffer) *Bitmap {
	return &Bitmap{buf: buf}
}

// Buffer returns the underlying pixel buffer.
func (bm *Bitmap) Buffer() *PixelBuffer { return bm.buf }

// Image returns the pixels as an image.Image for encoders and other read-only
// consumers. The image shares memory with the bitmap and must not be modified.
func (bm *Bitmap) Image() image.Image { return bm.buf.img }

// Width is the width in pixels.
func (bm *Bitmap) Width() int { return bm.buf.Width() }

// Height is the height in pixels.
func (bm *Bitmap) Height() int { return bm.buf.Height() }

// Scale is the number of pixels per point.
func (bm *Bitmap) Scale() float64 { return bm.buf.scale }

// Size is the logical size in points.
func (bm *Bitmap) Size() geometry.Size { return bm.buf.Size() }

// Bounds is the rect at the origin with the logical size.
func (bm *Bitmap) Bounds() geometry.Rect {
	return geometry.NewRect(geometry.NewPoint(0, 0), bm.Size())
}

// PointInBounds reports whether p addresses a pixel of the bitmap.
func (bm *Bitmap) PointInBounds(p geometry.Point) bool {
	return bm.Bounds().ContainsPoint(p)
}

// RectInBounds reports whether r lies entirely within the bitmap.
func (bm *Bitmap) RectInBounds(r geometry.Rect) bool {
	return bm.Bounds().ContainsRect(r)
}

// GetColor returns the color at p.
func (bm *Bitmap) GetColor(p geometry.Point) (colors.RGBA, error) {
	if !bm.PointInBounds(p) {
		return colors.RGBA{}, fmt.Errorf("%w: point %v outside %v", ErrOutOfBounds, p, bm.Bounds())
	}
	return bm.buf.At(p), nil
}

// Cropped returns an independent copy of the pixels within r, at the same scale.
func (bm *Bitmap) Cropped(r geometry.Rect) (*Bitmap, error) {
	if !bm.RectInBounds(r) {
		return nil, fmt.Errorf("%w: crop rect %v outside %v", ErrOutOfBounds, r, bm.Bounds())
	}
	pr := bm.pixelRect(r)
	if pr.Empty() {
		empty := image.NewNRGBA(image.Rect(0, 0, pr.Dx(), pr.Dy()))
		return &Bitmap{buf: wrapNRGBA(empty, bm.buf.scale)}, nil
	}
	return &Bitmap{buf: wrapNRGBA(imaging.Crop(bm.buf.img, pr), bm.buf.scale)}, nil
}

// Equal reports whether other has the same pixel dimensions and scale and every pair
// of corresponding pixels lies within tolerance. A tolerance of 0 is strict buffer
// equality, alpha included.
func (bm *Bitmap) Equal(other *Bitmap, tolerance float64) bool {
	if other == nil {
		return false
	}
	tolerance = colors.ClampTolerance(tolerance)
	if tolerance == 0 {
		return bm.buf.Equal(other.buf)
	}
	if bm.Width() != other.Width() || bm.Height() != other.Height() || bm.Scale() != other.Scale() {
		return false
	}
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			if !colors.Matches(bm.buf.pixel(x, y), other.buf.pixel(x, y), tolerance) {
				return false
			}
		}
	}
	return true
}

// Hash is the structural hash of the underlying buffer.
func (bm *Bitmap) Hash() uint64 { return bm.buf.Hash() }

// pixelRect converts an in-bounds logical rect to pixel space, clamping the far
// edges to the buffer.
func (bm *Bitmap) pixelRect(r geometry.Rect) image.Rectangle {
	pr := PixelRect(r, bm.buf.scale)
	return image.Rectangle{
		Min: image.Pt(min(pr.Min.X, bm.Width()), min(pr.Min.Y, bm.Height())),
		Max: image.Pt(min(pr.Max.X, bm.Width()), min(pr.Max.Y, bm.Height())),
	}
}

// toPoint converts a pixel position back to logical coordinates.
func (bm *Bitmap) toPoint(x, y int) geometry.Point {
	s := bm.buf.scale
	if s == 1 {
		return geometry.NewPoint(float64(x), float64(y))
	}
	return geometry.NewPoint(roundPoint(float64(x)/s), roundPoint(float64(y)/s))
}

// roundPoint trims float noise from pixel/scale divisions.
func roundPoint(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
