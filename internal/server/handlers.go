package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
	"github.com/ironsheep/bitmap-tools-mcp/internal/imaging"
	"github.com/ironsheep/bitmap-tools-mcp/internal/logger"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bitmap_open", "bitmap_find_color").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments and unknown tools return -32602; tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.Warn("tool failed", "tool", params.Name, "err", err)
		if errors.Is(err, errInvalidParams) || errors.Is(err, errUnknownTool) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Bitmap lifecycle
	case "bitmap_open":
		return s.handleBitmapOpen(args)
	case "bitmap_release":
		return s.handleBitmapRelease(args)
	case "bitmap_crop":
		return s.handleBitmapCrop(args)
	case "bitmap_save":
		return s.handleBitmapSave(args)

	// Queries
	case "bitmap_get_color":
		return s.handleBitmapGetColor(args)
	case "bitmap_bounds_check":
		return s.handleBitmapBoundsCheck(args)
	case "bitmap_equal":
		return s.handleBitmapEqual(args)

	// Color search
	case "bitmap_find_color":
		return s.handleBitmapFindColor(args)
	case "bitmap_find_every_color":
		return s.handleBitmapFindEveryColor(args)
	case "bitmap_count_of_color":
		return s.handleBitmapCountOfColor(args)

	// Sub-image search
	case "bitmap_find_bitmap":
		return s.handleBitmapFindBitmap(args)
	case "bitmap_find_every_bitmap":
		return s.handleBitmapFindEveryBitmap(args)
	case "bitmap_count_of_bitmap":
		return s.handleBitmapCountOfBitmap(args)

	// Color conversion
	case "color_rgb_to_hex":
		return s.handleColorRGBToHex(args)
	case "color_hex_to_rgb":
		return s.handleColorHexToRGB(args)

	// Screen
	case "screen_capture":
		return s.handleScreenCapture(args)
	case "screen_info":
		return s.handleScreenInfo(args)

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// load resolves a path or handle argument through the cache.
func (s *Server) load(key, field string) (*bitmap.Bitmap, error) {
	if key == "" {
		return nil, invalidParams("%s is required", field)
	}
	return s.cache.Load(key)
}

// === Bitmap Lifecycle Handlers ===

type bitmapOpenArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleBitmapOpen(args json.RawMessage) (interface{}, error) {
	var a bitmapOpenArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Scale < 1 {
		return nil, invalidParams("scale must be at least 1")
	}

	if imaging.IsHandle(a.Path) {
		return imaging.LoadBitmapInfo(s.cache, a.Path)
	}
	if _, err := s.cache.Open(a.Path, a.Scale); err != nil {
		return nil, err
	}
	return imaging.LoadBitmapInfo(s.cache, a.Path)
}

type bitmapKeyArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleBitmapRelease(args json.RawMessage) (interface{}, error) {
	var a bitmapKeyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	return map[string]interface{}{
		"cached": s.cache.Keys(),
	}, nil
}

type bitmapCropArgs struct {
	Path    string   `json:"path"`
	Rect    *rectArg `json:"rect,omitempty"`
	Region  string   `json:"region,omitempty"`
	Key     string   `json:"key,omitempty"`
	Preview *bool    `json:"preview,omitempty"`
	Zoom    float64  `json:"zoom,omitempty"`
}

func (s *Server) handleBitmapCrop(args json.RawMessage) (interface{}, error) {
	var a bitmapCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bm, err := s.load(a.Path, "path")
	if err != nil {
		return nil, err
	}

	var r geometry.Rect
	switch {
	case a.Rect != nil && a.Region != "":
		return nil, invalidParams("rect and region are mutually exclusive")
	case a.Rect != nil:
		if r, err = a.Rect.rect(); err != nil {
			return nil, err
		}
	case a.Region != "":
		if r, err = imaging.RegionRect(bm.Bounds(), a.Region); err != nil {
			return nil, invalidParams("%v", err)
		}
	default:
		return nil, invalidParams("rect or region is required")
	}

	if a.Zoom == 0 {
		a.Zoom = 1.0
	}
	preview := a.Preview == nil || *a.Preview

	cropped, result, err := imaging.Crop(bm, r, preview, a.Zoom)
	if err != nil {
		return nil, err
	}
	result.Key = s.cache.Put(a.Key, cropped)
	return result, nil
}

type bitmapSaveArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Format string `json:"format,omitempty"`
}

type bitmapSaveResult struct {
	Output string `json:"output"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleBitmapSave(args json.RawMessage) (interface{}, error) {
	var a bitmapSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, invalidParams("output is required")
	}
	bm, err := s.load(a.Path, "path")
	if err != nil {
		return nil, err
	}

	format := a.Format
	if format == "" {
		f, err := bitmap.FormatFromPath(a.Output)
		if err != nil {
			return nil, err
		}
		format = f.String()
	}
	if err := bm.SaveFormat(a.Output, format); err != nil {
		return nil, err
	}

	f, _ := bitmap.ParseFormat(format)
	return &bitmapSaveResult{
		Output: filepath.Clean(a.Output),
		Format: f.String(),
		Width:  bm.Width(),
		Height: bm.Height(),
	}, nil
}

// === Query Handlers ===

type bitmapGetColorArgs struct {
	Path   string                 `json:"path"`
	X      *float64               `json:"x,omitempty"`
	Y      *float64               `json:"y,omitempty"`
	Points []imaging.LabeledPoint `json:"points,omitempty"`
}

func (s *Server) handleBitmapGetColor(args json.RawMessage) (interface{}, error) {
	var a bitmapGetColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bm, err := s.load(a.Path, "path")
	if err != nil {
		return nil, err
	}

	if len(a.Points) > 0 {
		return imaging.SampleColorsMulti(bm, a.Points)
	}
	if a.X == nil || a.Y == nil {
		return nil, invalidParams("x and y, or points, are required")
	}
	return imaging.SampleColor(bm, geometry.NewPoint(*a.X, *a.Y))
}

type bitmapBoundsCheckArgs struct {
	Path  string    `json:"path"`
	Point *pointArg `json:"point,omitempty"`
	Rect  *rectArg  `json:"rect,omitempty"`
}

type boundsCheckResult struct {
	Bounds        geometry.Rect `json:"bounds"`
	Scale         float64       `json:"scale"`
	PointInBounds *bool         `json:"point_in_bounds,omitempty"`
	RectInBounds  *bool         `json:"rect_in_bounds,omitempty"`
}

func (s *Server) handleBitmapBoundsCheck(args json.RawMessage) (interface{}, error) {
	var a bitmapBoundsCheckArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bm, err := s.load(a.Path, "path")
	if err != nil {
		return nil, err
	}

	result := &boundsCheckResult{
		Bounds: bm.Bounds(),
		Scale:  bm.Scale(),
	}
	if a.Point != nil {
		in := bm.PointInBounds(a.Point.point())
		result.PointInBounds = &in
	}
	if a.Rect != nil {
		r, err := a.Rect.rect()
		if err != nil {
			return nil, err
		}
		in := bm.RectInBounds(r)
		result.RectInBounds = &in
	}
	return result, nil
}

type bitmapEqualArgs struct {
	Path      string   `json:"path"`
	Other     string   `json:"other"`
	Tolerance *float64 `json:"tolerance,omitempty"`
}

func (s *Server) handleBitmapEqual(args json.RawMessage) (interface{}, error) {
	var a bitmapEqualArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bm, err := s.load(a.Path, "path")
	if err != nil {
		return nil, err
	}
	other, err := s.load(a.Other, "other")
	if err != nil {
		return nil, err
	}

	tolerance := s.tolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	return imaging.Compare(bm, other, tolerance), nil
}

// === Search Handlers ===

type findResult struct {
	Found bool            `json:"found"`
	Point *geometry.Point `json:"point,omitempty"`
}

type findEveryResult struct {
	Count  int              `json:"count"`
	Points []geometry.Point `json:"points"`
}

type countResult struct {
	Count uint64 `json:"count"`
}

func newFindResult(p geometry.Point, found bool) *findResult {
	if !found {
		return &findResult{}
	}
	return &findResult{Found: true, Point: &p}
}

type colorSearchArgs struct {
	Path  string   `json:"path"`
	Color colorArg `json:"color"`
	searchArgs
}

func (s *Server) colorSearch(args json.RawMessage) (*bitmap.Bitmap, colors.RGBA, []bitmap.Option, error) {
	var a colorSearchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, colors.RGBA{}, nil, err
	}
	if !a.Color.set {
		return nil, colors.RGBA{}, nil, invalidParams("color is required")
	}
	opts, err := s.searchOptions(a.searchArgs)
	if err != nil {
		return nil, colors.RGBA{}, nil, err
	}
	bm, err := s.load(a.Path, "path")
	if err != nil {
		return nil, colors.RGBA{}, nil, err
	}
	return bm, a.Color.RGBA, opts, nil
}

func (s *Server) handleBitmapFindColor(args json.RawMessage) (interface{}, error) {
	bm, c, opts, err := s.colorSearch(args)
	if err != nil {
		return nil, err
	}
	p, found, err := bm.FindColor(c, opts...)
	if err != nil {
		return nil, err
	}
	return newFindResult(p, found), nil
}

func (s *Server) handleBitmapFindEveryColor(args json.RawMessage) (interface{}, error) {
	bm, c, opts, err := s.colorSearch(args)
	if err != nil {
		return nil, err
	}
	points, err := bm.FindEveryColor(c, opts...)
	if err != nil {
		return nil, err
	}
	return &findEveryResult{Count: len(points), Points: points}, nil
}

func (s *Server) handleBitmapCountOfColor(args json.RawMessage) (interface{}, error) {
	bm, c, opts, err := s.colorSearch(args)
	if err != nil {
		return nil, err
	}
	n, err := bm.CountOfColor(c, opts...)
	if err != nil {
		return nil, err
	}
	return &countResult{Count: n}, nil
}

type bitmapSearchArgs struct {
	Path   string `json:"path"`
	Needle string `json:"needle"`
	searchArgs
}

func (s *Server) bitmapSearch(args json.RawMessage) (*bitmap.Bitmap, *bitmap.Bitmap, []bitmap.Option, error) {
	var a bitmapSearchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, nil, nil, err
	}
	opts, err := s.searchOptions(a.searchArgs)
	if err != nil {
		return nil, nil, nil, err
	}
	haystack, err := s.load(a.Path, "path")
	if err != nil {
		return nil, nil, nil, err
	}
	needle, err := s.load(a.Needle, "needle")
	if err != nil {
		return nil, nil, nil, err
	}
	return haystack, needle, opts, nil
}

func (s *Server) handleBitmapFindBitmap(args json.RawMessage) (interface{}, error) {
	haystack, needle, opts, err := s.bitmapSearch(args)
	if err != nil {
		return nil, err
	}
	p, found, err := haystack.FindBitmap(needle, opts...)
	if err != nil {
		return nil, err
	}
	return newFindResult(p, found), nil
}

func (s *Server) handleBitmapFindEveryBitmap(args json.RawMessage) (interface{}, error) {
	haystack, needle, opts, err := s.bitmapSearch(args)
	if err != nil {
		return nil, err
	}
	points, err := haystack.FindEveryBitmap(needle, opts...)
	if err != nil {
		return nil, err
	}
	return &findEveryResult{Count: len(points), Points: points}, nil
}

func (s *Server) handleBitmapCountOfBitmap(args json.RawMessage) (interface{}, error) {
	haystack, needle, opts, err := s.bitmapSearch(args)
	if err != nil {
		return nil, err
	}
	n, err := haystack.CountOfBitmap(needle, opts...)
	if err != nil {
		return nil, err
	}
	return &countResult{Count: n}, nil
}

// === Color Conversion Handlers ===

type colorRGBArgs struct {
	R *int `json:"r"`
	G *int `json:"g"`
	B *int `json:"b"`
}

func (s *Server) handleColorRGBToHex(args json.RawMessage) (interface{}, error) {
	var a colorRGBArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.R == nil || a.G == nil || a.B == nil {
		return nil, invalidParams("r, g and b are required")
	}
	for _, v := range []int{*a.R, *a.G, *a.B} {
		if v < 0 || v > 255 {
			return nil, invalidParams("channel %d outside 0-255", v)
		}
	}
	hex := colors.RGBToHex(uint8(*a.R), uint8(*a.G), uint8(*a.B))
	return imaging.NewColorResult(colors.FromHex(hex)), nil
}

type colorHexArgs struct {
	Color colorArg `json:"color"`
}

func (s *Server) handleColorHexToRGB(args json.RawMessage) (interface{}, error) {
	var a colorHexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if !a.Color.set {
		return nil, invalidParams("color is required")
	}
	return imaging.NewColorResult(a.Color.RGBA), nil
}

// === Screen Handlers ===

type screenCaptureArgs struct {
	Rect    *rectArg `json:"rect,omitempty"`
	Key     string   `json:"key,omitempty"`
	Preview bool     `json:"preview,omitempty"`
}

func (s *Server) handleScreenCapture(args json.RawMessage) (interface{}, error) {
	var a screenCaptureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if s.capturer == nil {
		return nil, errCaptureDisabled
	}

	var bm *bitmap.Bitmap
	var err error
	if a.Rect != nil {
		r, rerr := a.Rect.rect()
		if rerr != nil {
			return nil, rerr
		}
		bm, err = s.capturer.CaptureRegion(r)
	} else {
		bm, err = s.capturer.CaptureScreen()
	}
	if err != nil {
		return nil, err
	}

	key := s.cache.Put(a.Key, bm)
	result := &imaging.CropResult{
		Key:    key,
		Width:  bm.Width(),
		Height: bm.Height(),
		Scale:  bm.Scale(),
	}
	if a.Preview {
		data, err := imaging.EncodePreview(bm, 1)
		if err != nil {
			return nil, err
		}
		result.ImageBase64 = data
		result.MimeType = "image/png"
	}
	return result, nil
}

var errCaptureDisabled = errors.New("screen capture is disabled")

type screenInfoArgs struct {
	Point *pointArg `json:"point,omitempty"`
}

type screenInfoResult struct {
	Bounds       geometry.Rect        `json:"bounds"`
	Scale        float64              `json:"scale,omitempty"`
	PointVisible *bool                `json:"point_visible,omitempty"`
	Color        *imaging.ColorResult `json:"color,omitempty"`
}

func (s *Server) handleScreenInfo(args json.RawMessage) (interface{}, error) {
	var a screenInfoArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if s.capturer == nil {
		return nil, errCaptureDisabled
	}

	bounds, err := s.capturer.Bounds()
	if err != nil {
		return nil, err
	}
	result := &screenInfoResult{Bounds: bounds}
	if sc, ok := s.capturer.(interface{ Scale() float64 }); ok {
		result.Scale = sc.Scale()
	}
	if a.Point != nil {
		p := a.Point.point()
		visible := bounds.ContainsPoint(p)
		result.PointVisible = &visible
		if visible {
			screen, err := s.capturer.CaptureScreen()
			if err != nil {
				return nil, err
			}
			if result.Color, err = imaging.SampleColor(screen, p); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}
