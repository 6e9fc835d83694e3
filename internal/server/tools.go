package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func pointProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

func rectProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "number"},
			"y":      map[string]interface{}{"type": "number"},
			"width":  map[string]interface{}{"type": "number", "minimum": 0},
			"height": map[string]interface{}{"type": "number", "minimum": 0},
		},
		"required": []string{"x", "y", "width", "height"},
	}
}

func colorProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        []string{"integer", "string"},
		"description": "Color as a packed 0xRRGGBB integer, a \"#RRGGBB\" or \"#RGB\" string, or a name (black, white, red, green, blue, yellow, cyan, magenta, gray)",
	}
}

func toleranceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Color tolerance from 0 (exact RGB match) to 1 (any color matches). Defaults to the configured search tolerance",
		"minimum":     0,
		"maximum":     1,
	}
}

const (
	imagePathDescription = "Image file path or cached bitmap key (e.g. capture://1)"
	searchRectDesc       = "Search only within this rect, in points. Defaults to the whole bitmap"
	searchStartDesc      = "Resume scanning at this point within the rect, in row-major order"
)

// searchProperties adds the optional search arguments to base.
func searchProperties(base map[string]interface{}) map[string]interface{} {
	base["tolerance"] = toleranceProperty()
	base["rect"] = rectProperty(searchRectDesc)
	base["start"] = pointProperty(searchStartDesc)
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Bitmap lifecycle
		{
			Name:        "bitmap_open",
			Description: "Decode an image file (bmp, gif, jpeg, png, tiff, webp) into the bitmap cache and return its size, scale and hash. Reopening replaces the cached bitmap.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty("Path to the image file"),
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Pixels per point, e.g. 2 for a high-density screenshot. Default 1.0",
					"default":     1.0,
					"minimum":     1,
				},
			}, "path"),
		},
		{
			Name:        "bitmap_release",
			Description: "Drop a bitmap from the cache, or every bitmap when path is omitted.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(imagePathDescription),
			}),
		},
		{
			Name:        "bitmap_crop",
			Description: "Copy a rect or named region out of a bitmap into a new cached bitmap. Returns its key and, by default, a base64 PNG preview.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(imagePathDescription),
				"rect": rectProperty("Rect to copy, in points. Must lie within the bitmap"),
				"region": map[string]interface{}{
					"type":        "string",
					"description": "Named region used instead of rect",
					"enum": []string{
						"top-left", "top-right", "bottom-left", "bottom-right",
						"top-half", "bottom-half", "left-half", "right-half", "center",
					},
				},
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Cache key for the crop. Default: a new capture:// handle",
				},
				"preview": map[string]interface{}{
					"type":        "boolean",
					"description": "Include a base64 PNG of the crop. Default true",
					"default":     true,
				},
				"zoom": map[string]interface{}{
					"type":        "number",
					"description": "Resize factor for the preview only. Default 1.0",
					"default":     1.0,
				},
			}, "path"),
		},
		{
			Name:        "bitmap_save",
			Description: "Write a bitmap to disk. Writable formats are bmp, gif, jpeg and png; the format comes from the output extension unless given.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   pathProperty(imagePathDescription),
				"output": pathProperty("Destination file path"),
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Override the format implied by the extension",
					"enum":        []string{"bmp", "gif", "jpeg", "jpg", "png"},
				},
			}, "path", "output"),
		},

		// Queries
		{
			Name:        "bitmap_get_color",
			Description: "Get the color at a point, or at several labeled points, as hex, RGB, RGBA and HSL.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(imagePathDescription),
				"x":    map[string]interface{}{"type": "number", "description": "X in points"},
				"y":    map[string]interface{}{"type": "number", "description": "Y in points"},
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Sample several points instead of x/y",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "number"},
							"y":     map[string]interface{}{"type": "number"},
							"label": map[string]interface{}{"type": "string"},
						},
						"required": []string{"x", "y"},
					},
				},
			}, "path"),
		},
		{
			Name:        "bitmap_bounds_check",
			Description: "Return a bitmap's bounds in points and whether a point or rect lies inside them.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":  pathProperty(imagePathDescription),
				"point": pointProperty("Point to test and sample"),
				"rect":  rectProperty("Rect to test"),
			}, "path"),
		},
		{
			Name:        "bitmap_equal",
			Description: "Compare two bitmaps. Returns whether they are equal within the tolerance plus per-pixel difference statistics.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":      pathProperty(imagePathDescription),
				"other":     pathProperty("Second image path or cached bitmap key"),
				"tolerance": toleranceProperty(),
			}, "path", "other"),
		},

		// Color search
		{
			Name:        "bitmap_find_color",
			Description: "Find the first pixel matching a color, scanning rows top to bottom and left to right.",
			InputSchema: objectSchema(searchProperties(map[string]interface{}{
				"path":  pathProperty(imagePathDescription),
				"color": colorProperty(),
			}), "path", "color"),
		},
		{
			Name:        "bitmap_find_every_color",
			Description: "Find every pixel matching a color, in scan order.",
			InputSchema: objectSchema(searchProperties(map[string]interface{}{
				"path":  pathProperty(imagePathDescription),
				"color": colorProperty(),
			}), "path", "color"),
		},
		{
			Name:        "bitmap_count_of_color",
			Description: "Count the pixels matching a color.",
			InputSchema: objectSchema(searchProperties(map[string]interface{}{
				"path":  pathProperty(imagePathDescription),
				"color": colorProperty(),
			}), "path", "color"),
		},

		// Sub-image search
		{
			Name:        "bitmap_find_bitmap",
			Description: "Find the first position where a needle bitmap appears inside the haystack. Both must share the same scale.",
			InputSchema: objectSchema(searchProperties(map[string]interface{}{
				"path":   pathProperty(imagePathDescription),
				"needle": pathProperty("Needle image path or cached bitmap key"),
			}), "path", "needle"),
		},
		{
			Name:        "bitmap_find_every_bitmap",
			Description: "Find every position where a needle bitmap appears, overlapping matches included.",
			InputSchema: objectSchema(searchProperties(map[string]interface{}{
				"path":   pathProperty(imagePathDescription),
				"needle": pathProperty("Needle image path or cached bitmap key"),
			}), "path", "needle"),
		},
		{
			Name:        "bitmap_count_of_bitmap",
			Description: "Count the positions where a needle bitmap appears.",
			InputSchema: objectSchema(searchProperties(map[string]interface{}{
				"path":   pathProperty(imagePathDescription),
				"needle": pathProperty("Needle image path or cached bitmap key"),
			}), "path", "needle"),
		},

		// Color conversion
		{
			Name:        "color_rgb_to_hex",
			Description: "Pack red, green and blue channels into a 0xRRGGBB value.",
			InputSchema: objectSchema(map[string]interface{}{
				"r": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
				"g": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
				"b": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
			}, "r", "g", "b"),
		},
		{
			Name:        "color_hex_to_rgb",
			Description: "Expand a packed hex value, hex string or color name into RGB, RGBA and HSL.",
			InputSchema: objectSchema(map[string]interface{}{
				"color": colorProperty(),
			}, "color"),
		},

		// Screen
		{
			Name:        "screen_capture",
			Description: "Capture the screen, or a rect of it in points, into the bitmap cache. Returns the key to pass as path to other tools.",
			InputSchema: objectSchema(map[string]interface{}{
				"rect": rectProperty("Region to capture. Defaults to the whole screen"),
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Cache key for the capture. Default: a new capture:// handle",
				},
				"preview": map[string]interface{}{
					"type":        "boolean",
					"description": "Include a base64 PNG of the capture. Default false",
					"default":     false,
				},
			}),
		},
		{
			Name:        "screen_info",
			Description: "Return the screen bounds in points and, given a point, whether it is visible and the screen color under it.",
			InputSchema: objectSchema(map[string]interface{}{
				"point": pointProperty("Point to test and sample"),
			}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
