// Package imaging provides the tool-facing helpers that sit between the MCP server
// and the bitmap engine.
//
// It keeps a BitmapCache of decoded files and in-memory captures, describes cached
// bitmaps, expands sampled colors into hex, RGB, RGBA and HSL forms, crops bitmaps
// into new cache entries with optional PNG previews, and reports per-pixel comparison
// statistics.
//
// # Coordinate System
//
// Every point and rect accepted here is in logical points, as in package bitmap:
//   - X grows rightward and Y grows downward from (0,0) at the top-left
//   - a point maps to the pixel floor(coordinate * scale)
//   - rects are half-open, origin inclusive and far edge exclusive
//
// Pixel sizes (Width, Height) in results are physical pixels.
//
// # Thread Safety
//
// BitmapCache is safe for concurrent use. Bitmaps are immutable once created, so
// the other helpers can run concurrently on shared bitmaps.
package imaging
