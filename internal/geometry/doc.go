// Package geometry provides the logical coordinate types used by the bitmap engine.
//
// Coordinates are expressed in points, not pixels. A bitmap with a scale of 2 has
// two physical pixels per point along each axis, so the point (1.5, 0) addresses the
// pixel column 3. Conversion to pixels always multiplies by the scale and floors.
//
// # Rectangles
//
// A Rect is half-open: it contains x in [Origin.X, Origin.X+Width) and likewise for y.
// Two rects that share an edge therefore never claim the same coordinate, and a 1x1
// rect contains exactly one cell.
package geometry
