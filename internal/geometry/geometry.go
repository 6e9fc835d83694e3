package geometry

import (
	"fmt"
	"math"
)

// Point is a logical coordinate. Equality is exact.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint returns the point (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scaled multiplies both coordinates by factor.
func (p Point) Scaled(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size is a logical extent. Width and Height are never negative.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize returns a size, clamping negative or NaN dimensions to zero.
func NewSize(width, height float64) Size {
	return Size{Width: nonNegative(width), Height: nonNegative(height)}
}

// IsEmpty reports whether the size covers no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// NewRect returns the rect with the given origin and size.
func NewRect(origin Point, size Size) Rect {
	return Rect{Origin: origin, Size: NewSize(size.Width, size.Height)}
}

// RectFromXYWH is shorthand for NewRect(NewPoint(x, y), NewSize(w, h)).
func RectFromXYWH(x, y, w, h float64) Rect {
	return NewRect(NewPoint(x, y), NewSize(w, h))
}

// MaxX is the exclusive right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY is the exclusive bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// IsEmpty reports whether the rect covers no area.
func (r Rect) IsEmpty() bool { return r.Size.IsEmpty() }

// ContainsPoint reports whether p lies in the half-open rect.
// An empty rect contains no points.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Origin.X && p.X < r.MaxX() &&
		p.Y >= r.Origin.Y && p.Y < r.MaxY()
}

// ContainsRect reports whether o lies entirely within r. An empty o is contained
// when its origin lies within r's closed extent, so a zero-width rect on the right
// edge of r is still in bounds.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Origin.X >= r.Origin.X && o.Origin.Y >= r.Origin.Y &&
		o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.Origin.X < o.MaxX() && o.Origin.X < r.MaxX() &&
		r.Origin.Y < o.MaxY() && o.Origin.Y < r.MaxY()
}

// Scaled multiplies the origin and size by factor.
func (r Rect) Scaled(factor float64) Rect {
	return NewRect(r.Origin.Scaled(factor), NewSize(r.Size.Width*factor, r.Size.Height*factor))
}

func (r Rect) String() string {
	return fmt.Sprintf("{%v %v}", r.Origin, r.Size)
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
