package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

// maxPreviewZoom caps the preview resize factor.
const maxPreviewZoom = 8.0

// CropResult describes a cropped bitmap and carries a PNG preview of it.
type CropResult struct {
	Key         string  `json:"key,omitempty"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
	ImageBase64 string  `json:"image_base64,omitempty"`
	MimeType    string  `json:"mime_type,omitempty"`
}

// Crop copies r out of bm. The returned bitmap keeps bm's scale; the result
// holds its pixel size and, when preview is true, a base64 PNG of it resized
// by zoom.
func Crop(bm *bitmap.Bitmap, r geometry.Rect, preview bool, zoom float64) (*bitmap.Bitmap, *CropResult, error) {
	cropped, err := bm.Cropped(r)
	if err != nil {
		return nil, nil, err
	}

	result := &CropResult{
		Width:  cropped.Width(),
		Height: cropped.Height(),
		Scale:  cropped.Scale(),
	}
	if preview {
		data, err := EncodePreview(cropped, zoom)
		if err != nil {
			return nil, nil, err
		}
		result.ImageBase64 = data
		result.MimeType = "image/png"
	}
	return cropped, result, nil
}

// EncodePreview renders bm as base64 PNG, resized by zoom when zoom is not 1.
// Empty bitmaps cannot be encoded.
func EncodePreview(bm *bitmap.Bitmap, zoom float64) (string, error) {
	if bm.Width() == 0 || bm.Height() == 0 {
		return "", fmt.Errorf("%w: cannot preview an empty bitmap", bitmap.ErrEncode)
	}
	if zoom <= 0 || zoom > maxPreviewZoom {
		return "", fmt.Errorf("zoom %v outside (0, %v]", zoom, maxPreviewZoom)
	}

	var img image.Image = bm.Image()
	if zoom != 1.0 {
		w := max(1, int(float64(bm.Width())*zoom))
		h := max(1, int(float64(bm.Height())*zoom))
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := bitmap.New(img, 1).Encode(&buf, bitmap.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RegionRect resolves a named region of bounds to a rect in the same units.
func RegionRect(bounds geometry.Rect, region string) (geometry.Rect, error) {
	w := bounds.Size.Width
	h := bounds.Size.Height
	midX := float64(int(w / 2))
	midY := float64(int(h / 2))
	x0, y0 := bounds.Origin.X, bounds.Origin.Y

	var x, y, rw, rh float64
	switch region {
	case "top-left":
		x, y, rw, rh = 0, 0, midX, midY
	case "top-right":
		x, y, rw, rh = midX, 0, w-midX, midY
	case "bottom-left":
		x, y, rw, rh = 0, midY, midX, h-midY
	case "bottom-right":
		x, y, rw, rh = midX, midY, w-midX, h-midY
	case "top-half":
		x, y, rw, rh = 0, 0, w, midY
	case "bottom-half":
		x, y, rw, rh = 0, midY, w, h-midY
	case "left-half":
		x, y, rw, rh = 0, 0, midX, h
	case "right-half":
		x, y, rw, rh = midX, 0, w-midX, h
	case "center":
		// Center 50% of the area
		qW := float64(int(w / 4))
		qH := float64(int(h / 4))
		x, y, rw, rh = qW, qH, w-2*qW, h-2*qH
	default:
		return geometry.Rect{}, fmt.Errorf("unknown region: %s", region)
	}

	return geometry.RectFromXYWH(x0+x, y0+y, rw, rh), nil
}
