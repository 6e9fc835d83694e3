// Package colors implements the color model shared by the bitmap engine and its tools.
//
// # Packing
//
// Colors cross the tool boundary as 24-bit integers laid out as 0xRRGGBB. RGBToHex and
// HexToRGB are exact inverses over every r, g, b in [0, 255].
//
// # Distance and Tolerance
//
// Distance is the mean absolute difference of the red, green and blue channels scaled
// to [0, 1]. Alpha never participates. A pixel matches a target when its distance is at
// most the tolerance, so a tolerance of 0 demands identical channels and a tolerance of
// 1 accepts every color. Tolerances outside [0, 1] are clamped rather than rejected.
package colors
