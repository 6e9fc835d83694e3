package bitmap

import "github.com/ironsheep/bitmap-tools-mcp/internal/geometry"

// Option configures a search.
type Option func(*searchOptions)

type searchOptions struct {
	// tolerance is the color-distance threshold in [0, 1].
	tolerance float64
	// rect restricts the search; nil means the full bounds.
	rect *geometry.Rect
	// start is the first candidate; nil means the rect's origin.
	start *geometry.Point
}

func applyOptions(opts ...Option) *searchOptions {
	o := &searchOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTolerance sets the color tolerance. Values outside [0, 1] are clamped.
func WithTolerance(t float64) Option {
	return func(o *searchOptions) {
		o.tolerance = t
	}
}

// WithRect restricts the search to r, which must lie within the bitmap's bounds.
func WithRect(r geometry.Rect) Option {
	return func(o *searchOptions) {
		o.rect = &r
	}
}

// WithStart begins the scan at p, which must lie within the search rect.
func WithStart(p geometry.Point) Option {
	return func(o *searchOptions) {
		o.start = &p
	}
}
