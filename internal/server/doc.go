// Package server implements the MCP (Model Context Protocol) server for the bitmap tools.
//
// It exposes the bitmap search engine as JSON-RPC 2.0 tools over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods are initialize, tools/list, tools/call and ping.
//
// # Bitmaps and Keys
//
// Every tool that reads a bitmap takes a "path". A file path is decoded once and
// cached; screen captures and crops are stored under caller-supplied keys or
// generated "capture://N" handles, which are accepted wherever a path is.
//
// # Coordinates and Colors
//
// Points ({x, y}) and rects ({x, y, width, height}) are in logical points; a bitmap
// opened with scale 2 has half as many points as pixels along each axis. Colors are
// a packed 0xRRGGBB number, a "#RRGGBB"/"#RGB" string, or a basic color name.
//
// # Error Handling
//
//   - -32700: the line is not valid JSON
//   - -32601: unknown method
//   - -32602: unknown tool or bad arguments
//   - -32000: the tool ran and failed; data holds the error string
package server
