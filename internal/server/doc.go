// Package server implements the MCP (Model Context Protocol) server for the
// pixel art tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the stylization
// pipeline through the MCP protocol, so that MCP-compatible clients can
// turn photographs into pixel art and inspect the palettes involved.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Pixel Art:
//   - pixelart_render: Run the full pipeline and return a base64 PNG
//   - pixelart_palette: Validate a palette string or derive one from an image
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded source images keyed by
// path. A render never writes to the cached buffer, so repeated renders of the
// same file with different parameters are independent.
//
// # Timeouts
//
// Each pixelart_render call is bounded by Config.RenderTimeout. A render that
// exceeds it fails with context.DeadlineExceeded; the computation finishes in
// the background and its result is discarded.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed tools/call
//     params) or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.NewWithConfig(server.Config{RenderTimeout: 30 * time.Second})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
