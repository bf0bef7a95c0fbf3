package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func sliderSchema(valueDescription string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"value": intProp(valueDescription),
			"commit": map[string]interface{}{
				"type":        "boolean",
				"description": "Commit the value to the edit history. When false only the preview changes. Default false",
				"default":     false,
			},
		},
		"required": []string{"value"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "editor_upload",
			Description: "Load an image file and start a new editing session with it. Any previous session and its history are discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "editor_save",
			Description: "Save the current image. The format follows the file extension (png, jpg, gif, bmp, tif). Transparent images saved as JPEG are flattened onto the configured background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the output file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "editor_state",
			Description: "Report the current image size, display scale, undo/redo depth, preview status and pen settings.",
			InputSchema: noArgs(),
		},
		{
			Name:        "editor_set_viewport",
			Description: "Set the maximum display size. Display coordinates of later actions are mapped to image pixels using the resulting scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_width":  intProp("Maximum display width in pixels"),
					"max_height": intProp("Maximum display height in pixels"),
				},
				"required": []string{"max_width", "max_height"},
			},
		},
		{
			Name:        "editor_preview",
			Description: "Render what the user sees (the slider preview if any, else the current image) fitted to the viewport, as base64-encoded PNG. Optionally overlay a grid labelled in image pixel coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid_spacing": intProp("Grid spacing in display pixels. 0 (default) draws no grid"),
				},
			},
		},

		// History
		{
			Name:        "editor_undo",
			Description: "Undo the most recent edit.",
			InputSchema: noArgs(),
		},
		{
			Name:        "editor_redo",
			Description: "Redo the most recently undone edit.",
			InputSchema: noArgs(),
		},
		{
			Name:        "editor_revert",
			Description: "Return to the image as it was loaded. The revert itself can be undone.",
			InputSchema: noArgs(),
		},

		// Edits
		{
			Name:        "editor_apply_filter",
			Description: "Apply a filter to the whole image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "Filter to apply",
						"enum":        []string{"negative", "grayscale", "sepia", "sketch"},
					},
				},
				"required": []string{"filter"},
			},
		},
		{
			Name:        "editor_draw",
			Description: "Draw a freehand stroke through display-space points. Two points draw a straight line.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Stroke points in display coordinates",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Stroke colour as #RRGGBB or #RRGGBBAA. Defaults to the current pen colour",
					},
					"width": intProp("Stroke width in image pixels. Defaults to the configured line width"),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "editor_add_text",
			Description: "Draw a line of text. The position is the start of the text baseline in display coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x":    intProp("Baseline start X in display coordinates"),
					"y":    intProp("Baseline Y in display coordinates"),
					"text": map[string]interface{}{"type": "string", "description": "Text to draw"},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Text colour as #RRGGBB or #RRGGBBAA. Defaults to the current pen colour",
					},
				},
				"required": []string{"x", "y", "text"},
			},
		},
		{
			Name:        "editor_crop",
			Description: "Crop to the rectangle spanned by two opposite corners in display coordinates, given in any order, or to a named region of the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": intProp("First corner X"),
					"y1": intProp("First corner Y"),
					"x2": intProp("Opposite corner X"),
					"y2": intProp("Opposite corner Y"),
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named region to keep instead of a rectangle",
						"enum": []string{
							"top-left", "top-right", "bottom-left", "bottom-right",
							"top-half", "bottom-half", "left-half", "right-half", "center",
						},
					},
				},
			},
		},
		{
			Name:        "editor_adjust_brightness",
			Description: "Preview or commit a brightness change. The value is added to every colour channel.",
			InputSchema: sliderSchema("Brightness offset, typically -100 to 100"),
		},
		{
			Name:        "editor_adjust_blur",
			Description: "Preview or commit a Gaussian blur. Values 0 and 1 leave the image unchanged; even values use the next odd kernel size.",
			InputSchema: sliderSchema("Blur strength (kernel size), typically 0 to 50"),
		},
		{
			Name:        "editor_remove_background",
			Description: "Make the background transparent using the configured saliency model.",
			InputSchema: noArgs(),
		},

		// Inspection
		{
			Name:        "editor_pick_color",
			Description: "Sample the colour at a display-space point and make it the pen colour.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": intProp("X in display coordinates"),
					"y": intProp("Y in display coordinates"),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "editor_ocr",
			Description: "Read text from the current image, optionally inside a display-space rectangle. Word bounds are returned in image pixel coordinates. With regions_only, return text block locations instead.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": intProp("Region first corner X (optional)"),
					"y1": intProp("Region first corner Y (optional)"),
					"x2": intProp("Region opposite corner X (optional)"),
					"y2": intProp("Region opposite corner Y (optional)"),
					"regions_only": map[string]interface{}{
						"type":        "boolean",
						"description": "Return text block bounding boxes instead of text. Default false",
						"default":     false,
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum block confidence (0.0-1.0) when regions_only is set. Default 0.5",
						"default":     0.5,
					},
				},
			},
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
