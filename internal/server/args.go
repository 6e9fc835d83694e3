package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

var (
	errInvalidParams = errors.New("invalid params")
	errUnknownTool   = errors.New("unknown tool")
)

func invalidParams(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidParams, fmt.Sprintf(format, args...))
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(raw json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidParams, err)
	}
	return nil
}

// colorArg accepts a packed 0xRRGGBB number or any string colors.ParseColor understands.
type colorArg struct {
	colors.RGBA
	set bool
}

func (c *colorArg) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		rgba, err := colors.ParseColor(s)
		if err != nil {
			return err
		}
		c.RGBA, c.set = rgba, true
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("color must be a number or a string: %w", err)
	}
	if n < 0 || n > 0xFFFFFF || n != math.Trunc(n) {
		return fmt.Errorf("color %v is not a 24-bit 0xRRGGBB value", n)
	}
	c.RGBA, c.set = colors.FromHex(uint32(n)), true
	return nil
}

type pointArg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p pointArg) point() geometry.Point {
	return geometry.NewPoint(p.X, p.Y)
}

type rectArg struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r rectArg) rect() (geometry.Rect, error) {
	if r.Width < 0 || r.Height < 0 {
		return geometry.Rect{}, invalidParams("rect width and height must not be negative")
	}
	return geometry.RectFromXYWH(r.X, r.Y, r.Width, r.Height), nil
}

// searchArgs are the optional arguments shared by every search tool.
type searchArgs struct {
	Tolerance *float64  `json:"tolerance,omitempty"`
	Rect      *rectArg  `json:"rect,omitempty"`
	Start     *pointArg `json:"start,omitempty"`
}

func (s *Server) searchOptions(a searchArgs) ([]bitmap.Option, error) {
	tolerance := s.tolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	opts := []bitmap.Option{bitmap.WithTolerance(tolerance)}

	if a.Rect != nil {
		r, err := a.Rect.rect()
		if err != nil {
			return nil, err
		}
		opts = append(opts, bitmap.WithRect(r))
	}
	if a.Start != nil {
		opts = append(opts, bitmap.WithStart(a.Start.point()))
	}
	return opts, nil
}
