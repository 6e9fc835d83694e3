package bitmap

import "errors"

var (
	// ErrOutOfBounds is returned when a point or rect falls outside a bitmap's bounds.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvalidArgument is returned when a required argument such as a needle is nil.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat is returned when no codec handles a file format.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDecode is returned when the codec rejects the input bytes.
	ErrDecode = errors.New("failed to decode image")

	// ErrEncode is returned when the codec rejects the pixel buffer.
	ErrEncode = errors.New("failed to encode image")

	// ErrIO is returned when the underlying file operation fails.
	ErrIO = errors.New("image i/o failed")

	// ErrScaleMismatch is returned when a needle and haystack have different scales.
	ErrScaleMismatch = errors.New("bitmap scale mismatch")
)
