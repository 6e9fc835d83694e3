package server

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/capture"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

// newTestImage returns a white image with two 2x2 red blocks at (1,1) and (6,4).
func newTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, white)
		}
	}
	for _, p := range []image.Point{{1, 1}, {6, 4}} {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				img.SetNRGBA(p.X+dx, p.Y+dy, red)
			}
		}
	}
	return img
}

// createTestImageFile writes img as PNG into a temp dir and returns its path.
func createTestImageFile(t *testing.T, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := bitmap.New(img, 1).Save(path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the JSON text content.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()
	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("tool text is not JSON: %v", err)
	}
	return out, nil
}

func mustCall(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	out, mcpErr := callTool(t, s, name, args)
	if mcpErr != nil {
		t.Fatalf("%s failed: %d %s: %v", name, mcpErr.Code, mcpErr.Message, mcpErr.Data)
	}
	return out
}

func wantError(t *testing.T, s *Server, name string, args map[string]interface{}, code int) {
	t.Helper()
	_, mcpErr := callTool(t, s, name, args)
	if mcpErr == nil {
		t.Fatalf("%s should fail", name)
	}
	if mcpErr.Code != code {
		t.Errorf("%s: code %d (%v), want %d", name, mcpErr.Code, mcpErr.Data, code)
	}
}

func point(m map[string]interface{}) (float64, float64) {
	p := m["point"].(map[string]interface{})
	return p["x"].(float64), p["y"].(float64)
}

func TestHandleToolsCall_BitmapOpen(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "open.png")

	out := mustCall(t, s, "bitmap_open", map[string]interface{}{"path": path})
	if out["width"] != 10.0 || out["height"] != 8.0 || out["scale"] != 1.0 {
		t.Errorf("info: %v", out)
	}
	if out["format"] != "png" {
		t.Errorf("format: got %v, want png", out["format"])
	}

	out = mustCall(t, s, "bitmap_open", map[string]interface{}{"path": path, "scale": 2})
	if out["logical_width"] != 5.0 || out["logical_height"] != 4.0 {
		t.Errorf("scaled info: %v", out)
	}
}

func TestHandleToolsCall_BitmapOpen_Errors(t *testing.T) {
	s := New()
	wantError(t, s, "bitmap_open", map[string]interface{}{}, codeInvalidParams)
	wantError(t, s, "bitmap_open", map[string]interface{}{"path": "x.png", "scale": 0.5}, codeInvalidParams)
	wantError(t, s, "bitmap_open", map[string]interface{}{"path": "/nonexistent/image.png"}, codeToolFailed)
	wantError(t, s, "bitmap_open", map[string]interface{}{"path": "notes.txt"}, codeToolFailed)
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	wantError(t, New(), "nonexistent_tool", map[string]interface{}{}, codeInvalidParams)
}

func TestHandleToolsCall_InvalidParamsJSON(t *testing.T) {
	s := New()
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2]`)})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("got %+v, want invalid params", resp.Error)
	}
}

func TestHandleToolsCall_GetColor(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "color.png")

	out := mustCall(t, s, "bitmap_get_color", map[string]interface{}{"path": path, "x": 1, "y": 1})
	if out["hex"] != "#FF0000" || out["hex_value"] != float64(0xFF0000) {
		t.Errorf("color: %v", out)
	}

	out = mustCall(t, s, "bitmap_get_color", map[string]interface{}{
		"path": path,
		"points": []map[string]interface{}{
			{"x": 0, "y": 0, "label": "bg"},
			{"x": 7, "y": 5},
		},
	})
	samples := out["samples"].([]interface{})
	if len(samples) != 2 {
		t.Fatalf("samples: %v", samples)
	}
	first := samples[0].(map[string]interface{})
	if first["label"] != "bg" || first["color"].(map[string]interface{})["hex"] != "#FFFFFF" {
		t.Errorf("first sample: %v", first)
	}

	wantError(t, s, "bitmap_get_color", map[string]interface{}{"path": path, "x": 10, "y": 0}, codeToolFailed)
	wantError(t, s, "bitmap_get_color", map[string]interface{}{"path": path}, codeInvalidParams)
}

func TestHandleToolsCall_FindColor(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "find.png")

	tests := []struct {
		name  string
		color interface{}
	}{
		{"packed number", 0xFF0000},
		{"hex string", "#FF0000"},
		{"short hex", "#f00"},
		{"name", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustCall(t, s, "bitmap_find_color", map[string]interface{}{"path": path, "color": tt.color})
			if out["found"] != true {
				t.Fatalf("not found: %v", out)
			}
			if x, y := point(out); x != 1 || y != 1 {
				t.Errorf("point: got (%v,%v), want (1,1)", x, y)
			}
		})
	}

	out := mustCall(t, s, "bitmap_find_color", map[string]interface{}{"path": path, "color": "blue"})
	if out["found"] != false || out["point"] != nil {
		t.Errorf("blue should not be found: %v", out)
	}
}

func TestHandleToolsCall_FindColor_Options(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "opts.png")

	out := mustCall(t, s, "bitmap_find_color", map[string]interface{}{
		"path":  path,
		"color": "red",
		"rect":  map[string]interface{}{"x": 4, "y": 0, "width": 6, "height": 8},
	})
	if x, y := point(out); x != 6 || y != 4 {
		t.Errorf("rect search: got (%v,%v), want (6,4)", x, y)
	}

	out = mustCall(t, s, "bitmap_find_color", map[string]interface{}{
		"path":  path,
		"color": "red",
		"start": map[string]interface{}{"x": 3, "y": 1},
	})
	if x, y := point(out); x != 1 || y != 2 {
		t.Errorf("start search: got (%v,%v), want (1,2)", x, y)
	}

	out = mustCall(t, s, "bitmap_find_color", map[string]interface{}{
		"path":      path,
		"color":     "#FE0101",
		"tolerance": 0.01,
	})
	if out["found"] != true {
		t.Errorf("tolerance search should match red: %v", out)
	}

	wantError(t, s, "bitmap_find_color", map[string]interface{}{
		"path":  path,
		"color": "red",
		"rect":  map[string]interface{}{"x": 5, "y": 0, "width": 6, "height": 8},
	}, codeToolFailed)
}

func TestHandleToolsCall_FindColor_BadColor(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(4, 4), "bad.png")

	for _, c := range []interface{}{"chartreuse-ish", -1, 0x1000000, 1.5, true} {
		wantError(t, s, "bitmap_find_color", map[string]interface{}{"path": path, "color": c}, codeInvalidParams)
	}
	wantError(t, s, "bitmap_find_color", map[string]interface{}{"path": path}, codeInvalidParams)
}

func TestHandleToolsCall_EveryAndCountOfColor(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "every.png")

	every := mustCall(t, s, "bitmap_find_every_color", map[string]interface{}{"path": path, "color": "red"})
	if every["count"] != 8.0 || len(every["points"].([]interface{})) != 8 {
		t.Errorf("every: %v", every)
	}

	count := mustCall(t, s, "bitmap_count_of_color", map[string]interface{}{"path": path, "color": "red"})
	if count["count"] != 8.0 {
		t.Errorf("count: %v", count)
	}

	none := mustCall(t, s, "bitmap_find_every_color", map[string]interface{}{"path": path, "color": "blue"})
	if pts, ok := none["points"].([]interface{}); !ok || len(pts) != 0 {
		t.Errorf("no matches should give an empty list: %v", none)
	}
}

func TestHandleToolsCall_BitmapSearch(t *testing.T) {
	s := New()
	haystack := createTestImageFile(t, newTestImage(10, 8), "haystack.png")

	crop := mustCall(t, s, "bitmap_crop", map[string]interface{}{
		"path":    haystack,
		"rect":    map[string]interface{}{"x": 1, "y": 1, "width": 2, "height": 2},
		"key":     "block",
		"preview": false,
	})
	if crop["key"] != "block" || crop["width"] != 2.0 {
		t.Fatalf("crop: %v", crop)
	}

	found := mustCall(t, s, "bitmap_find_bitmap", map[string]interface{}{"path": haystack, "needle": "block"})
	if x, y := point(found); x != 1 || y != 1 {
		t.Errorf("find_bitmap: got (%v,%v), want (1,1)", x, y)
	}

	every := mustCall(t, s, "bitmap_find_every_bitmap", map[string]interface{}{"path": haystack, "needle": "block"})
	if every["count"] != 2.0 {
		t.Errorf("find_every_bitmap: %v", every)
	}

	count := mustCall(t, s, "bitmap_count_of_bitmap", map[string]interface{}{
		"path":   haystack,
		"needle": "block",
		"start":  map[string]interface{}{"x": 2, "y": 1},
	})
	if count["count"] != 1.0 {
		t.Errorf("count_of_bitmap after start: %v", count)
	}

	wantError(t, s, "bitmap_find_bitmap", map[string]interface{}{"path": haystack}, codeInvalidParams)
	wantError(t, s, "bitmap_find_bitmap", map[string]interface{}{"path": haystack, "needle": "capture://404"}, codeToolFailed)
}

func TestHandleToolsCall_BitmapSearch_ScaleMismatch(t *testing.T) {
	s := New()
	haystack := createTestImageFile(t, newTestImage(10, 8), "hay.png")
	needle := createTestImageFile(t, newTestImage(2, 2), "needle.png")

	mustCall(t, s, "bitmap_open", map[string]interface{}{"path": haystack, "scale": 2})
	_, mcpErr := callTool(t, s, "bitmap_find_bitmap", map[string]interface{}{"path": haystack, "needle": needle})
	if mcpErr == nil || mcpErr.Code != codeToolFailed {
		t.Fatalf("scale mismatch should fail the tool: %+v", mcpErr)
	}
}

func TestHandleToolsCall_Crop(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "crop.png")

	out := mustCall(t, s, "bitmap_crop", map[string]interface{}{"path": path, "region": "top-left"})
	if out["width"] != 5.0 || out["height"] != 4.0 {
		t.Errorf("region crop: %v", out)
	}
	if out["mime_type"] != "image/png" || out["image_base64"] == "" {
		t.Errorf("preview missing: %v", out)
	}
	key, _ := out["key"].(string)
	if key != "capture://1" {
		t.Errorf("generated key: got %q", key)
	}

	info := mustCall(t, s, "bitmap_open", map[string]interface{}{"path": key})
	if info["width"] != 5.0 {
		t.Errorf("cropped bitmap info: %v", info)
	}

	wantError(t, s, "bitmap_crop", map[string]interface{}{"path": path}, codeInvalidParams)
	wantError(t, s, "bitmap_crop", map[string]interface{}{"path": path, "region": "middle"}, codeInvalidParams)
	wantError(t, s, "bitmap_crop", map[string]interface{}{
		"path":   path,
		"region": "center",
		"rect":   map[string]interface{}{"x": 0, "y": 0, "width": 1, "height": 1},
	}, codeInvalidParams)
	wantError(t, s, "bitmap_crop", map[string]interface{}{
		"path": path,
		"rect": map[string]interface{}{"x": 8, "y": 0, "width": 4, "height": 1},
	}, codeToolFailed)
}

func TestHandleToolsCall_Save(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "src.png")
	dir := t.TempDir()

	out := mustCall(t, s, "bitmap_save", map[string]interface{}{
		"path":   path,
		"output": filepath.Join(dir, "copy.bmp"),
	})
	if out["format"] != "bmp" || out["width"] != 10.0 {
		t.Errorf("save: %v", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "copy.bmp")); err != nil {
		t.Errorf("saved file missing: %v", err)
	}

	out = mustCall(t, s, "bitmap_save", map[string]interface{}{
		"path":   path,
		"output": filepath.Join(dir, "copy.img"),
		"format": "png",
	})
	if out["format"] != "png" {
		t.Errorf("format override: %v", out)
	}

	equal := mustCall(t, s, "bitmap_equal", map[string]interface{}{
		"path":  path,
		"other": filepath.Join(dir, "copy.bmp"),
	})
	if equal["equal"] != true {
		t.Errorf("bmp copy should equal the source: %v", equal)
	}

	wantError(t, s, "bitmap_save", map[string]interface{}{"path": path}, codeInvalidParams)
	wantError(t, s, "bitmap_save", map[string]interface{}{
		"path":   path,
		"output": filepath.Join(dir, "copy.webp"),
	}, codeToolFailed)
}

func TestHandleToolsCall_Equal(t *testing.T) {
	s := New()
	a := createTestImageFile(t, newTestImage(10, 8), "a.png")
	other := newTestImage(10, 8)
	other.SetNRGBA(0, 0, color.NRGBA{250, 255, 255, 255})
	b := createTestImageFile(t, other, "b.png")

	strict := mustCall(t, s, "bitmap_equal", map[string]interface{}{"path": a, "other": b})
	if strict["equal"] != false || strict["pixels_different"] != 1.0 {
		t.Errorf("strict compare: %v", strict)
	}

	loose := mustCall(t, s, "bitmap_equal", map[string]interface{}{"path": a, "other": b, "tolerance": 0.01})
	if loose["equal"] != true {
		t.Errorf("loose compare: %v", loose)
	}

	wantError(t, s, "bitmap_equal", map[string]interface{}{"path": a}, codeInvalidParams)
}

func TestHandleToolsCall_DefaultTolerance(t *testing.T) {
	s := New(WithDefaultTolerance(0.01))
	path := createTestImageFile(t, newTestImage(4, 4), "tol.png")

	out := mustCall(t, s, "bitmap_find_color", map[string]interface{}{"path": path, "color": "#FEFEFE"})
	if out["found"] != true {
		t.Errorf("configured tolerance should apply: %v", out)
	}

	out = mustCall(t, s, "bitmap_find_color", map[string]interface{}{"path": path, "color": "#FEFEFE", "tolerance": 0})
	if out["found"] != false {
		t.Errorf("explicit tolerance 0 should override: %v", out)
	}
}

func TestHandleToolsCall_BoundsCheck(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(10, 8), "bounds.png")

	out := mustCall(t, s, "bitmap_bounds_check", map[string]interface{}{
		"path":  path,
		"point": map[string]interface{}{"x": 10, "y": 0},
		"rect":  map[string]interface{}{"x": 0, "y": 0, "width": 10, "height": 8},
	})
	if out["point_in_bounds"] != false || out["rect_in_bounds"] != true {
		t.Errorf("bounds check: %v", out)
	}
	size := out["bounds"].(map[string]interface{})["size"].(map[string]interface{})
	if size["width"] != 10.0 || size["height"] != 8.0 {
		t.Errorf("bounds size: %v", size)
	}

	out = mustCall(t, s, "bitmap_bounds_check", map[string]interface{}{"path": path})
	if _, ok := out["point_in_bounds"]; ok {
		t.Errorf("point_in_bounds should be omitted: %v", out)
	}

	wantError(t, s, "bitmap_bounds_check", map[string]interface{}{
		"path": path,
		"rect": map[string]interface{}{"x": 0, "y": 0, "width": -1, "height": 1},
	}, codeInvalidParams)
}

func TestHandleToolsCall_ColorConversion(t *testing.T) {
	s := New()

	out := mustCall(t, s, "color_rgb_to_hex", map[string]interface{}{"r": 18, "g": 52, "b": 86})
	if out["hex_value"] != float64(0x123456) || out["hex"] != "#123456" {
		t.Errorf("rgb_to_hex: %v", out)
	}

	out = mustCall(t, s, "color_hex_to_rgb", map[string]interface{}{"color": 0x123456})
	rgb := out["rgb"].(map[string]interface{})
	if rgb["r"] != 18.0 || rgb["g"] != 52.0 || rgb["b"] != 86.0 {
		t.Errorf("hex_to_rgb: %v", out)
	}

	out = mustCall(t, s, "color_hex_to_rgb", map[string]interface{}{"color": "cyan"})
	if out["hex"] != "#00FFFF" {
		t.Errorf("named color: %v", out)
	}

	wantError(t, s, "color_rgb_to_hex", map[string]interface{}{"r": 256, "g": 0, "b": 0}, codeInvalidParams)
	wantError(t, s, "color_rgb_to_hex", map[string]interface{}{"r": 1}, codeInvalidParams)
	wantError(t, s, "color_hex_to_rgb", map[string]interface{}{}, codeInvalidParams)
}

func TestHandleToolsCall_Release(t *testing.T) {
	s := New()
	path := createTestImageFile(t, newTestImage(4, 4), "release.png")
	mustCall(t, s, "bitmap_open", map[string]interface{}{"path": path})
	mustCall(t, s, "bitmap_crop", map[string]interface{}{"path": path, "region": "center", "preview": false})

	out := mustCall(t, s, "bitmap_release", map[string]interface{}{"path": path})
	if cached := out["cached"].([]interface{}); len(cached) != 1 || cached[0] != "capture://1" {
		t.Errorf("after evict: %v", cached)
	}

	out = mustCall(t, s, "bitmap_release", map[string]interface{}{})
	if cached := out["cached"].([]interface{}); len(cached) != 0 {
		t.Errorf("after clear: %v", cached)
	}
}

func newStaticServer() *Server {
	img := newTestImage(10, 8)
	img.SetNRGBA(9, 7, blue)
	return New(WithCapturer(capture.NewStatic(bitmap.New(img, 1))))
}

func TestHandleToolsCall_ScreenCapture(t *testing.T) {
	s := newStaticServer()

	out := mustCall(t, s, "screen_capture", map[string]interface{}{})
	if out["key"] != "capture://1" || out["width"] != 10.0 || out["height"] != 8.0 {
		t.Errorf("full capture: %v", out)
	}
	if _, ok := out["image_base64"]; ok {
		t.Error("preview should be off by default")
	}

	out = mustCall(t, s, "screen_capture", map[string]interface{}{
		"rect":    map[string]interface{}{"x": 5, "y": 3, "width": 5, "height": 5},
		"key":     "corner",
		"preview": true,
	})
	if out["key"] != "corner" || out["width"] != 5.0 || out["image_base64"] == "" {
		t.Errorf("region capture: %v", out)
	}

	found := mustCall(t, s, "bitmap_find_color", map[string]interface{}{"path": "corner", "color": "blue"})
	if x, y := point(found); x != 4 || y != 4 {
		t.Errorf("blue in corner capture: got (%v,%v), want (4,4)", x, y)
	}

	wantError(t, s, "screen_capture", map[string]interface{}{
		"rect": map[string]interface{}{"x": 6, "y": 0, "width": 5, "height": 1},
	}, codeToolFailed)
}

func TestHandleToolsCall_ScreenInfo(t *testing.T) {
	s := newStaticServer()

	out := mustCall(t, s, "screen_info", map[string]interface{}{"point": map[string]interface{}{"x": 9.5, "y": 7}})
	if out["point_visible"] != true {
		t.Errorf("point should be visible: %v", out)
	}
	color, ok := out["color"].(map[string]interface{})
	if !ok || color["hex"] != "#0000FF" {
		t.Errorf("screen color under (9.5,7): got %v, want #0000FF", out["color"])
	}

	out = mustCall(t, s, "screen_info", map[string]interface{}{"point": map[string]interface{}{"x": 10, "y": 0}})
	if out["point_visible"] != false {
		t.Errorf("point should not be visible: %v", out)
	}
	if _, ok := out["color"]; ok {
		t.Errorf("no color expected off screen: %v", out)
	}

	out = mustCall(t, s, "screen_info", map[string]interface{}{})
	if _, ok := out["color"]; ok {
		t.Errorf("no color expected without a point: %v", out)
	}
}

func TestHandleToolsCall_ScreenDisabled(t *testing.T) {
	s := New()
	wantError(t, s, "screen_capture", map[string]interface{}{}, codeToolFailed)
	wantError(t, s, "screen_info", map[string]interface{}{}, codeToolFailed)
}
