package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder; imaging registers BMP and TIFF
)

// Format identifies an image file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatBMP
	FormatGIF
	FormatJPEG
	FormatPNG
	FormatTIFF
	FormatWebP
)

// jpegQuality matches the lossless-as-possible setting used for screenshots.
const jpegQuality = 100

var formatNames = map[Format]string{
	FormatBMP:  "bmp",
	FormatGIF:  "gif",
	FormatJPEG: "jpeg",
	FormatPNG:  "png",
	FormatTIFF: "tiff",
	FormatWebP: "webp",
}

var extensions = map[string]Format{
	"bmp":  FormatBMP,
	"gif":  FormatGIF,
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"png":  FormatPNG,
	"tif":  FormatTIFF,
	"tiff": FormatTIFF,
	"webp": FormatWebP,
}

// encoders holds every writable format. TIFF and WebP are read-only.
var encoders = map[Format]imgio.Encoder{
	FormatBMP:  imgio.BMPEncoder(),
	FormatGIF:  gifEncoder,
	FormatJPEG: imgio.JPEGEncoder(jpegQuality),
	FormatPNG:  imgio.PNGEncoder(),
}

func gifEncoder(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Writable reports whether Save and Encode accept the format.
func (f Format) Writable() bool {
	_, ok := encoders[f]
	return ok
}

// ParseFormat maps a format name or file extension, with or without the leading dot,
// to a Format. Matching is case-insensitive.
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if f, ok := extensions[key]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath derives the format from path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Open decodes the image at path. The format is keyed by the file extension; the
// resulting bitmap has a scale of 1.
func Open(path string) (*Bitmap, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads an image in any readable format from r.
func Decode(r io.Reader) (*Bitmap, error) {
	img, err := imaging.Decode(r)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return New(img, 1), nil
}

// Save writes the bitmap to path in the format implied by its extension, replacing
// any existing file.
func (bm *Bitmap) Save(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return bm.save(path, f)
}

// SaveFormat writes the bitmap to path in the named format, ignoring the extension.
func (bm *Bitmap) SaveFormat(path, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	return bm.save(path, f)
}

func (bm *Bitmap) save(path string, format Format) error {
	if !format.Writable() {
		return fmt.Errorf("%w: %s is not writable", ErrUnsupportedFormat, format)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}
	if err := bm.Encode(out, format); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	return nil
}

// Encode writes the bitmap to w in a writable format.
func (bm *Bitmap) Encode(w io.Writer, format Format) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("%w: %s is not writable", ErrUnsupportedFormat, format)
	}
	if err := enc(w, bm.buf.img); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}
	return nil
}
