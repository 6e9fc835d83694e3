package imaging

import (
	"math"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
)

// Size is a pixel size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CompareResult contains pixel comparison statistics for two bitmaps.
//
// Pixels are compared over the overlapping top-left area when sizes differ.
// A pixel counts as different when its RGB distance exceeds the tolerance.
type CompareResult struct {
	Equal           bool    `json:"equal"`
	SameSize        bool    `json:"same_size"`
	SameScale       bool    `json:"same_scale"`
	Size1           Size    `json:"size1"`
	Size2           Size    `json:"size2"`
	TotalPixels     int     `json:"total_pixels"`
	PixelsDifferent int     `json:"pixels_different"`
	MaxDistance     float64 `json:"max_distance"`
	AverageDistance float64 `json:"average_distance"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Compare reports how a and b differ. Equal is a.Equal(b, tolerance).
func Compare(a, b *bitmap.Bitmap, tolerance float64) *CompareResult {
	tolerance = colors.ClampTolerance(tolerance)

	w1, h1 := a.Width(), a.Height()
	w2, h2 := b.Width(), b.Height()
	minW := min(w1, w2)
	minH := min(h1, h2)

	va := a.Buffer().RawView()
	vb := b.Buffer().RawView()

	totalPixels := minW * minH
	pixelsDifferent := 0
	var maxDist, totalDist float64

	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			ca := pixelAt(va, w1, x, y)
			cb := pixelAt(vb, w2, x, y)
			d := colors.Distance(ca, cb)
			totalDist += d
			if d > maxDist {
				maxDist = d
			}
			if !colors.Matches(ca, cb, tolerance) {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0
	avg := 0.0
	if totalPixels > 0 {
		similarity = 1.0 - float64(pixelsDifferent)/float64(totalPixels)
		avg = totalDist / float64(totalPixels)
	}

	return &CompareResult{
		Equal:           a.Equal(b, tolerance),
		SameSize:        w1 == w2 && h1 == h2,
		SameScale:       a.Scale() == b.Scale(),
		Size1:           Size{Width: w1, Height: h1},
		Size2:           Size{Width: w2, Height: h2},
		TotalPixels:     totalPixels,
		PixelsDifferent: pixelsDifferent,
		MaxDistance:     math.Round(maxDist*10000) / 10000,
		AverageDistance: math.Round(avg*10000) / 10000,
		SimilarityScore: math.Round(similarity*1000) / 1000,
	}
}

func pixelAt(v bitmap.View, width, x, y int) colors.RGBA {
	i := (y*width + x) * 4
	return colors.RGBA{R: v.At(i), G: v.At(i + 1), B: v.At(i + 2), A: v.At(i + 3)}
}
