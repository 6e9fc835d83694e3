// Package capture produces bitmaps from the screen.
//
// A Capturer hands the engine a decoded Bitmap and nothing else; how pixels are read
// from the display is its own business. Screen reads a physical display through
// github.com/kbinani/screenshot. Static serves crops of a fixed bitmap and stands in
// for a display in tests and headless environments.
//
// Rects passed to CaptureRegion are in logical points relative to the captured
// surface and are validated against its bounds before any pixels are read.
package capture
