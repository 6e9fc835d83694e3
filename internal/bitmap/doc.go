// Package bitmap implements decoded pixel buffers and the color and sub-image search
// engine that runs over them.
//
// A Bitmap owns one PixelBuffer: a tightly packed, row-major RGBA8 grid plus a scale
// factor in pixels per point. Buffers never change after construction; cropping
// produces an independent copy.
//
// # Coordinates
//
// Every argument and result is expressed in logical points (see package geometry).
// Points are converted to pixel indices by multiplying by the scale and flooring, and
// pixel positions are reported back divided by the scale.
//
// # Searching
//
// The Find, FindEvery and CountOf families accept optional settings through Option
// values: a tolerance (default 0), a rect restricting the search (default the full
// bounds) and a start point inside that rect (default its origin). Candidates are
// visited in row-major order starting at the start point; on every later row the scan
// restarts at the rect's left edge. That order defines which match is "first".
//
// # Thread Safety
//
// Bitmaps are immutable and may be searched from many goroutines at once. Searches do
// no I/O and hold no locks.
//
// # Errors
//
// Failures are reported with the sentinel kinds below, wrapped with context and, for
// codec and I/O failures, the underlying cause:
//   - ErrOutOfBounds: a point, rect or start point lies outside the referenced bounds
//   - ErrUnsupportedFormat: an extension or format name maps to no codec
//   - ErrDecode, ErrEncode: the codec rejected the bytes or the buffer
//   - ErrIO: the file could not be opened, created or written
//   - ErrScaleMismatch: a needle's scale differs from the haystack's
package bitmap
