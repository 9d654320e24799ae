// Package server implements the MCP (Model Context Protocol) server for reading
// checkboxes on scanned forms.
//
// This package provides a JSON-RPC 2.0 server that exposes the tick classifier,
// checkbox detection and label OCR through the MCP protocol.
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
// Image cache:
//   - image_load: Load a page and get its metadata
//   - image_unload: Drop one or all pages from the cache
//
// Single checkbox regions:
//   - checkbox_classify: Checked or not, with confidence
//   - checkbox_analyze: Verdict plus every measurement behind it
//   - checkbox_projection: Dark pixels per row and column
//   - checkbox_peaks: Border lines of the frame
//   - checkbox_fill: Dark pixels inside a box
//   - checkbox_fill_ratios: Outer and inner fill ratios
//
// Whole forms:
//   - form_detect_checkboxes: Find checkbox frames
//   - form_read_checkboxes: Find, classify and label every checkbox
//
// Region coordinates in arguments follow the page: (x1, y1) inclusive, (x2, y2)
// exclusive. Measurements returned by the checkbox_* tools are relative to the
// region's top-left corner.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed params, bad arguments or an unknown tool;
//     -32000 when a tool ran and failed; -32601 for an unknown method
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Logging
//
// Every tool call is logged with a fresh call_id, its tool name and duration.
// Logs never go to stdout.
package server
