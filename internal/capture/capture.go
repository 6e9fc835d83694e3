package capture

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/kbinani/screenshot"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

// ErrCapture is returned when no pixels could be read from the surface.
var ErrCapture = errors.New("screen capture failed")

// Capturer produces bitmaps of a surface.
type Capturer interface {
	// Bounds is the capturable area in logical points.
	Bounds() (geometry.Rect, error)
	// CaptureScreen captures the whole surface.
	CaptureScreen() (*bitmap.Bitmap, error)
	// CaptureRegion captures r, which must lie within Bounds.
	CaptureRegion(r geometry.Rect) (*bitmap.Bitmap, error)
}

// Screen captures one physical display.
type Screen struct {
	display int
	scale   float64
}

// NewScreen returns a capturer for the display at index display. Scale is the number
// of physical pixels per point, 1 for most displays and 2 for high-density ones.
func NewScreen(display int, scale float64) *Screen {
	if scale < 1 || math.IsNaN(scale) {
		scale = 1
	}
	return &Screen{display: display, scale: scale}
}

// Scale returns the configured pixels per point.
func (s *Screen) Scale() float64 { return s.scale }

func (s *Screen) pixelBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if s.display < 0 || s.display >= n {
		return image.Rectangle{}, fmt.Errorf("%w: display %d not available (%d active)", ErrCapture, s.display, n)
	}
	return screenshot.GetDisplayBounds(s.display), nil
}

// Bounds returns the display size in points, with the origin at (0, 0).
func (s *Screen) Bounds() (geometry.Rect, error) {
	pb, err := s.pixelBounds()
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.RectFromXYWH(0, 0, float64(pb.Dx())/s.scale, float64(pb.Dy())/s.scale), nil
}

// CaptureScreen captures the entire display.
func (s *Screen) CaptureScreen() (*bitmap.Bitmap, error) {
	pb, err := s.pixelBounds()
	if err != nil {
		return nil, err
	}
	return s.capture(pb)
}

// CaptureRegion captures r from the display.
func (s *Screen) CaptureRegion(r geometry.Rect) (*bitmap.Bitmap, error) {
	pb, err := s.pixelBounds()
	if err != nil {
		return nil, err
	}
	bounds := geometry.RectFromXYWH(0, 0, float64(pb.Dx())/s.scale, float64(pb.Dy())/s.scale)
	if !bounds.ContainsRect(r) {
		return nil, fmt.Errorf("%w: capture rect %v outside screen %v", bitmap.ErrOutOfBounds, r, bounds)
	}
	if r.IsEmpty() {
		return nil, fmt.Errorf("%w: capture rect %v has no area", ErrCapture, r)
	}

	rect := bitmap.PixelRect(r, s.scale).Add(pb.Min)
	return s.capture(rect.Intersect(pb))
}

func (s *Screen) capture(rect image.Rectangle) (*bitmap.Bitmap, error) {
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	return bitmap.New(img, s.scale), nil
}

// Static serves a fixed bitmap as if it were a screen.
type Static struct {
	bm *bitmap.Bitmap
}

// NewStatic returns a capturer that always reads from bm.
func NewStatic(bm *bitmap.Bitmap) *Static {
	return &Static{bm: bm}
}

// Bounds returns the bitmap's bounds.
func (s *Static) Bounds() (geometry.Rect, error) {
	if s.bm == nil {
		return geometry.Rect{}, fmt.Errorf("%w: no source bitmap", ErrCapture)
	}
	return s.bm.Bounds(), nil
}

// CaptureScreen returns a copy of the whole bitmap.
func (s *Static) CaptureScreen() (*bitmap.Bitmap, error) {
	b, err := s.Bounds()
	if err != nil {
		return nil, err
	}
	return s.bm.Cropped(b)
}

// CaptureRegion returns a copy of r.
func (s *Static) CaptureRegion(r geometry.Rect) (*bitmap.Bitmap, error) {
	if s.bm == nil {
		return nil, fmt.Errorf("%w: no source bitmap", ErrCapture)
	}
	return s.bm.Cropped(r)
}
