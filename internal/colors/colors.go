package colors

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// maxChannelSum is the largest possible sum of three 8-bit channel differences.
const maxChannelSum = 3 * 255

// RGBA is an 8-bit straight-alpha color.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBToHex packs r, g and b as 0xRRGGBB.
func RGBToHex(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// HexToRGB unpacks 0xRRGGBB. Bits above the low 24 are ignored.
func HexToRGB(hex uint32) (r, g, b uint8) {
	return uint8(hex >> 16 & 0xFF), uint8(hex >> 8 & 0xFF), uint8(hex & 0xFF)
}

// FromHex returns the opaque color packed in hex.
func FromHex(hex uint32) RGBA {
	r, g, b := HexToRGB(hex)
	return RGBA{R: r, G: g, B: b, A: 255}
}

// FromColor converts any color.Color to straight-alpha 8-bit channels.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Hex packs the color's RGB channels as 0xRRGGBB.
func (c RGBA) Hex() uint32 {
	return RGBToHex(c.R, c.G, c.B)
}

// HexString formats the RGB channels as "#RRGGBB".
func (c RGBA) HexString() string {
	return strings.ToUpper(c.colorful().Hex())
}

// HSL returns hue in degrees [0, 360) and saturation and lightness in [0, 1].
func (c RGBA) HSL() (h, s, l float64) {
	return c.colorful().Hsl()
}

// NRGBA converts to the standard library's straight-alpha color.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Distance returns the normalized RGB distance between a and b in [0, 1].
// It is symmetric and zero exactly when the RGB channels are equal.
func Distance(a, b RGBA) float64 {
	return float64(channelSum(a, b)) / maxChannelSum
}

func channelSum(a, b RGBA) int {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

// ClampTolerance limits t to [0, 1]. NaN is treated as 0.
func ClampTolerance(t float64) float64 {
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Matches reports whether pixel is within tolerance of target. The tolerance is
// clamped first.
func Matches(pixel, target RGBA, tolerance float64) bool {
	tolerance = ClampTolerance(tolerance)
	if tolerance == 0 {
		return pixel.R == target.R && pixel.G == target.G && pixel.B == target.B
	}
	return Distance(pixel, target) <= tolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

var named = map[string]RGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
}

// ParseColor resolves a textual color. Accepted forms are a symbolic name ("red"),
// "#RRGGBB", "#RGB", the same without the leading '#', and "0xRRGGBB".
// The result is always opaque.
func ParseColor(s string) (RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil || v > 0xFFFFFF {
			return RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		return FromHex(uint32(v)), nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 && len(s) != 4 {
		return RGBA{}, fmt.Errorf("invalid color %q: expected a name, #RRGGBB or #RGB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: 255}, nil
}
