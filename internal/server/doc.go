// Package server implements the MCP (Model Context Protocol) server for carrier images.
//
// This package provides a JSON-RPC 2.0 server that exposes the pixel-grid codec
// through the MCP protocol, so MCP clients can move arbitrary bytes into and out
// of lossless images and inspect existing carriers.
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
// Encoding and Decoding:
//   - carrier_pack: Pack base64 data or a file into a carrier image
//   - carrier_unpack: Recover the bytes from a carrier file or base64 image
//   - carrier_plan: Report the grid a payload length maps to
//
// Inspection:
//   - carrier_inspect: Dimensions, format, declared length, capacity
//   - carrier_dimensions: Width and height
//   - carrier_sample: Raw channels and role of one pixel
//   - carrier_sample_multi: Sample several pixels
//   - carrier_preview: Enlarged PNG rendering
//   - carrier_grid_overlay: Enlarged rendering with cell borders and index labels
//
// # Carrier Caching
//
// Carriers loaded by path are cached for the lifetime of the server process.
// A cached carrier is decoded again once its size or modification time changes,
// and every path the server writes is evicted.
//
// # Request Size
//
// Request lines longer than the limit (DefaultMaxRequestSize unless set with
// WithMaxRequestSize) are answered with a -32600 error and skipped.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
