// Package server implements the MCP (Model Context Protocol) server for the image editor.
//
// This package provides a JSON-RPC 2.0 server that exposes an interactive editing
// session through the MCP protocol. Each tool maps to one editor action.
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
// Requests are handled one at a time, in order.
//
// # Available Tools
//
// Session:
//   - editor_upload: Load an image and start a new session
//   - editor_save: Write the current image
//   - editor_state: Size, scale, history depth and pen settings
//   - editor_set_viewport: Change the display bounds
//   - editor_preview: Render the display image (optionally with a coordinate grid)
//
// History:
//   - editor_undo, editor_redo, editor_revert
//
// Edits:
//   - editor_apply_filter: negative, grayscale, sepia or sketch
//   - editor_draw: Freehand stroke or straight line
//   - editor_add_text: Text at a baseline position
//   - editor_crop: Crop to a rectangle
//   - editor_adjust_brightness, editor_adjust_blur: Preview or commit a slider value
//   - editor_remove_background: Saliency-based background removal
//
// Inspection:
//   - editor_pick_color: Sample a colour and make it the pen colour
//   - editor_ocr: Read text or locate text blocks
//
// Coordinates in tool arguments are display coordinates, relative to the image as shown
// by editor_preview. Results report image pixel coordinates.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Undo or redo with nothing to step through is reported the same way.
//
// # Usage
//
//	editor, err := session.New(cfg, session.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	srv := server.New(editor, logger, version)
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    return err
//	}
package server
