package bitmap

import (
	"fmt"
	"image"

	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

var errNilNeedle = fmt.Errorf("%w: nil needle", ErrInvalidArgument)

// region is a validated search area in pixel space.
type region struct {
	rect   image.Rectangle
	startX int
	startY int
	empty  bool
}

// resolve validates the rect and start point and converts them to pixels. A
// zero-area rect yields an empty region before the start point is examined, since an
// empty rect contains no point at all.
func (bm *Bitmap) resolve(o *searchOptions) (region, error) {
	rect := bm.Bounds()
	if o.rect != nil {
		if !bm.RectInBounds(*o.rect) {
			return region{}, fmt.Errorf("%w: search rect %v outside %v", ErrOutOfBounds, *o.rect, bm.Bounds())
		}
		rect = *o.rect
	}

	pr := bm.pixelRect(rect)
	if rect.IsEmpty() || pr.Empty() {
		return region{empty: true}, nil
	}

	start := rect.Origin
	if o.start != nil {
		if !rect.ContainsPoint(*o.start) {
			return region{}, fmt.Errorf("%w: start point %v outside search rect %v", ErrOutOfBounds, *o.start, rect)
		}
		start = *o.start
	}

	// A start inside the rect but past its last whole pixel begins on the next row,
	// so no result precedes it in scan order.
	s := bm.buf.scale
	sx, sy := max(toPixel(start.X, s), pr.Min.X), max(toPixel(start.Y, s), pr.Min.Y)
	if sx >= pr.Max.X {
		sx, sy = pr.Min.X, sy+1
	}
	if sy >= pr.Max.Y {
		return region{empty: true}, nil
	}
	return region{rect: pr, startX: sx, startY: sy}, nil
}

// scanColor visits every pixel of rg matching target in scan order until visit
// returns false.
func (bm *Bitmap) scanColor(target colors.RGBA, tolerance float64, rg region, visit func(x, y int) bool) {
	if rg.empty {
		return
	}
	tolerance = colors.ClampTolerance(tolerance)
	for y := rg.startY; y < rg.rect.Max.Y; y++ {
		x := rg.rect.Min.X
		if y == rg.startY {
			x = rg.startX
		}
		for ; x < rg.rect.Max.X; x++ {
			if colors.Matches(bm.buf.pixel(x, y), target, tolerance) && !visit(x, y) {
				return
			}
		}
	}
}

// scanBitmap visits every top-left position in rg where needle matches, in scan
// order, until visit returns false. Positions where the needle would extend past rg
// are not candidates.
func (bm *Bitmap) scanBitmap(needle *Bitmap, tolerance float64, rg region, visit func(x, y int) bool) {
	if rg.empty {
		return
	}
	nw, nh := needle.Width(), needle.Height()
	if nw == 0 || nh == 0 || nw > rg.rect.Dx() || nh > rg.rect.Dy() {
		return
	}

	tolerance = colors.ClampTolerance(tolerance)
	lastX := rg.rect.Max.X - nw
	lastY := rg.rect.Max.Y - nh
	for y := rg.startY; y <= lastY; y++ {
		x := rg.rect.Min.X
		if y == rg.startY {
			x = rg.startX
		}
		for ; x <= lastX; x++ {
			if bm.needleAt(needle, x, y, tolerance) && !visit(x, y) {
				return
			}
		}
	}
}

// needleAt compares needle against the haystack window at (x, y), stopping at the
// first mismatching pixel. The needle's top-left pixel is compared first and rejects
// most candidates on its own.
func (bm *Bitmap) needleAt(needle *Bitmap, x, y int, tolerance float64) bool {
	if tolerance >= 1 {
		return true
	}
	for j := 0; j < needle.Height(); j++ {
		for i := 0; i < needle.Width(); i++ {
			if !colors.Matches(bm.buf.pixel(x+i, y+j), needle.buf.pixel(i, j), tolerance) {
				return false
			}
		}
	}
	return true
}

func (bm *Bitmap) checkNeedle(needle *Bitmap) error {
	if needle == nil {
		return errNilNeedle
	}
	if needle.Scale() != bm.Scale() {
		return fmt.Errorf("%w: needle scale %g, haystack scale %g", ErrScaleMismatch, needle.Scale(), bm.Scale())
	}
	return nil
}

// FindColor returns the first point in scan order whose color is within tolerance of
// c. The bool is false when nothing matches.
func (bm *Bitmap) FindColor(c colors.RGBA, opts ...Option) (geometry.Point, bool, error) {
	o := applyOptions(opts...)
	rg, err := bm.resolve(o)
	if err != nil {
		return geometry.Point{}, false, err
	}

	var found geometry.Point
	ok := false
	bm.scanColor(c, o.tolerance, rg, func(x, y int) bool {
		found, ok = bm.toPoint(x, y), true
		return false
	})
	return found, ok, nil
}

// FindEveryColor returns every matching point in scan order. The slice is empty,
// not nil, when nothing matches.
func (bm *Bitmap) FindEveryColor(c colors.RGBA, opts ...Option) ([]geometry.Point, error) {
	o := applyOptions(opts...)
	rg, err := bm.resolve(o)
	if err != nil {
		return nil, err
	}

	points := []geometry.Point{}
	bm.scanColor(c, o.tolerance, rg, func(x, y int) bool {
		points = append(points, bm.toPoint(x, y))
		return true
	})
	return points, nil
}

// CountOfColor returns len(FindEveryColor(c, opts...)) without building the slice.
func (bm *Bitmap) CountOfColor(c colors.RGBA, opts ...Option) (uint64, error) {
	o := applyOptions(opts...)
	rg, err := bm.resolve(o)
	if err != nil {
		return 0, err
	}

	var n uint64
	bm.scanColor(c, o.tolerance, rg, func(int, int) bool {
		n++
		return true
	})
	return n, nil
}

// FindBitmap returns the first top-left point in scan order at which needle matches
// within tolerance. A needle larger than the search rect, or with zero area, never
// matches.
func (bm *Bitmap) FindBitmap(needle *Bitmap, opts ...Option) (geometry.Point, bool, error) {
	if err := bm.checkNeedle(needle); err != nil {
		return geometry.Point{}, false, err
	}
	o := applyOptions(opts...)
	rg, err := bm.resolve(o)
	if err != nil {
		return geometry.Point{}, false, err
	}

	var found geometry.Point
	ok := false
	bm.scanBitmap(needle, o.tolerance, rg, func(x, y int) bool {
		found, ok = bm.toPoint(x, y), true
		return false
	})
	return found, ok, nil
}

// FindEveryBitmap returns every top-left point at which needle matches, in scan
// order. Matches may overlap.
func (bm *Bitmap) FindEveryBitmap(needle *Bitmap, opts ...Option) ([]geometry.Point, error) {
	if err := bm.checkNeedle(needle); err != nil {
		return nil, err
	}
	o := applyOptions(opts...)
	rg, err := bm.resolve(o)
	if err != nil {
		return nil, err
	}

	points := []geometry.Point{}
	bm.scanBitmap(needle, o.tolerance, rg, func(x, y int) bool {
		points = append(points, bm.toPoint(x, y))
		return true
	})
	return points, nil
}

// CountOfBitmap returns len(FindEveryBitmap(needle, opts...)) without building the
// slice.
func (bm *Bitmap) CountOfBitmap(needle *Bitmap, opts ...Option) (uint64, error) {
	if err := bm.checkNeedle(needle); err != nil {
		return 0, err
	}
	o := applyOptions(opts...)
	rg, err := bm.resolve(o)
	if err != nil {
		return 0, err
	}

	var n uint64
	bm.scanBitmap(needle, o.tolerance, rg, func(int, int) bool {
		n++
		return true
	})
	return n, nil
}
