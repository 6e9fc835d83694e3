package bitmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/fnv"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

// PixelBuffer is an immutable width x height grid of RGBA8 samples with a scale in
// pixels per point.
//
// The backing store is an *image.NRGBA whose origin is (0, 0) and whose stride is
// exactly 4*width, so its Pix slice is the raw row-major byte layout.
type PixelBuffer struct {
	img   *image.NRGBA
	scale float64
}

// NewPixelBuffer copies img into a new buffer. A scale below 1, NaN or infinite is
// replaced by 1.
func NewPixelBuffer(img image.Image, scale float64) *PixelBuffer {
	return &PixelBuffer{img: imaging.Clone(img), scale: normalizeScale(scale)}
}

// wrapNRGBA adopts img without copying. The caller must not retain img.
func wrapNRGBA(img *image.NRGBA, scale float64) *PixelBuffer {
	if !isTight(img) {
		img = imaging.Clone(img)
	}
	return &PixelBuffer{img: img, scale: normalizeScale(scale)}
}

func isTight(img *image.NRGBA) bool {
	r := img.Rect
	return r.Min.X == 0 && r.Min.Y == 0 && img.Stride == 4*r.Dx() && len(img.Pix) == 4*r.Dx()*r.Dy()
}

func normalizeScale(scale float64) float64 {
	if scale < 1 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}

// Width is the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.img.Rect.Dx() }

// Height is the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.img.Rect.Dy() }

// Scale is the number of pixels per point.
func (b *PixelBuffer) Scale() float64 { return b.scale }

// Size is the logical size in points.
func (b *PixelBuffer) Size() geometry.Size {
	return geometry.NewSize(float64(b.Width())/b.scale, float64(b.Height())/b.scale)
}

// At returns the sample under the logical point p. The point must be in bounds;
// callers check Bounds().ContainsPoint first.
func (b *PixelBuffer) At(p geometry.Point) colors.RGBA {
	x := min(toPixel(p.X, b.scale), b.Width()-1)
	y := min(toPixel(p.Y, b.scale), b.Height()-1)
	return b.pixel(x, y)
}

func (b *PixelBuffer) pixel(x, y int) colors.RGBA {
	i := y*b.img.Stride + x*4
	s := b.img.Pix[i : i+4 : i+4]
	return colors.RGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// RawView exposes the samples as row-major RGBA8 bytes without copying.
func (b *PixelBuffer) RawView() View {
	return View{pix: b.img.Pix[:len(b.img.Pix):len(b.img.Pix)]}
}

// Equal reports whether both buffers have the same dimensions, scale and samples.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil {
		return false
	}
	return b.scale == o.scale &&
		b.img.Rect.Eq(o.img.Rect) &&
		bytes.Equal(b.img.Pix, o.img.Pix)
}

// Hash returns a structural hash of the dimensions, scale and samples. Buffers that
// are Equal hash identically.
func (b *PixelBuffer) Hash() uint64 {
	h := fnv.New64a()
	var hdr [24]byte
	binary.LittleEndian.PutUint64(hdr[0:], uint64(b.Width()))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(b.Height()))
	binary.LittleEndian.PutUint64(hdr[16:], math.Float64bits(b.scale))
	h.Write(hdr[:])
	h.Write(b.img.Pix)
	return h.Sum64()
}

var errNegativeOffset = errors.New("bitmap: negative offset")

// View is a read-only window onto a PixelBuffer's bytes. It shares memory with the
// buffer, which stays alive for as long as any View of it is reachable.
type View struct {
	pix []byte
}

// Len is the number of bytes, width*height*4.
func (v View) Len() int { return len(v.pix) }

// At returns the byte at offset i.
func (v View) At(i int) byte { return v.pix[i] }

// ReadAt implements io.ReaderAt.
func (v View) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if off >= int64(len(v.pix)) {
		return 0, io.EOF
	}
	n := copy(p, v.pix[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo implements io.WriterTo, handing the backing bytes to w directly.
func (v View) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(v.pix)
	return int64(n), err
}

// Bytes copies the view into a new slice.
func (v View) Bytes() []byte {
	return bytes.Clone(v.pix)
}

// PixelRect converts a logical rect to pixel space at scale without clamping. Each
// edge is converted on its own, so the far edge is floor((x+w)*scale).
func PixelRect(r geometry.Rect, scale float64) image.Rectangle {
	return image.Rect(
		toPixel(r.Origin.X, scale), toPixel(r.Origin.Y, scale),
		toPixel(r.MaxX(), scale), toPixel(r.MaxY(), scale),
	)
}

// pixelSnap is how close v*scale must be to a whole number to count as one.
const pixelSnap = 1e-9

// toPixel converts a logical coordinate to a pixel index. Products within pixelSnap
// of a whole number snap to it, so pixel/scale*scale lands back on the same pixel.
func toPixel(v, scale float64) int {
	p := v * scale
	if r := math.Round(p); math.Abs(p-r) < pixelSnap {
		return int(r)
	}
	return int(math.Floor(p))
}
