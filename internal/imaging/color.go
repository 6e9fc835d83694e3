package imaging

import (
	"math"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
//
//   - HexValue: packed 0xRRGGBB integer, the form search tools accept
//   - Hex: "#RRGGBB" string (no alpha)
//   - RGB / RGBA: 8-bit components
//   - HSL: perceptual representation
type ColorResult struct {
	HexValue uint32    `json:"hex_value"`
	Hex      string    `json:"hex"`
	RGB      RGBColor  `json:"rgb"`
	RGBA     RGBAColor `json:"rgba"`
	HSL      HSLColor  `json:"hsl"`
}

// NewColorResult expands c into every representation.
func NewColorResult(c colors.RGBA) ColorResult {
	return ColorResult{
		HexValue: c.Hex(),
		Hex:      c.HexString(),
		RGB:      RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA:     RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:      toHSL(c),
	}
}

// SampleColor returns the color of the pixel under point p, in logical points.
//
// Points outside the bitmap's bounds fail with bitmap.ErrOutOfBounds.
func SampleColor(bm *bitmap.Bitmap, p geometry.Point) (*ColorResult, error) {
	c, err := bm.GetColor(p)
	if err != nil {
		return nil, err
	}
	result := NewColorResult(c)
	return &result, nil
}

// LabeledPoint is a sample location with an optional label echoed in the result.
type LabeledPoint struct {
	geometry.Point
	Label string `json:"label,omitempty"`
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains samples in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples every point. Any out-of-bounds point fails the whole call.
func SampleColorsMulti(bm *bitmap.Bitmap, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(bm, p.Point)
		if err != nil {
			return nil, err
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

func toHSL(c colors.RGBA) HSLColor {
	h, s, l := c.HSL()
	if math.IsNaN(h) {
		h = 0
	}
	hue := int(math.Round(h)) % 360
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
