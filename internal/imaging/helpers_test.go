package imaging

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func createSolidBitmap(width, height int, c color.NRGBA) *bitmap.Bitmap {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return bitmap.New(img, 1)
}

// createPatternBitmap returns red top-left, green top-right, blue bottom-left
// and white bottom-right quadrants.
func createPatternBitmap(width, height int, scale float64) *bitmap.Bitmap {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = red
			case x >= width/2 && y < height/2:
				c = green
			case x < width/2:
				c = blue
			default:
				c = white
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return bitmap.New(img, scale)
}

// writeTestBitmap saves bm under a temp dir and returns the path.
func writeTestBitmap(t *testing.T, bm *bitmap.Bitmap, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := bm.Save(path); err != nil {
		t.Fatalf("failed to save test bitmap: %v", err)
	}
	return path
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return st.Size()
}
