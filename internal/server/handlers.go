package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
	"github.com/ironsheep/image-editor-mcp/internal/session"
	"github.com/ironsheep/image-editor-mcp/internal/viewport"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "editor_upload", "editor_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ImageResult is a rendered image returned to the client.
type ImageResult struct {
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors, including undo or redo with nothing to step through, return a
// JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Runs the matching Editor action
//  4. Returns the result (usually the editor state) or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "editor_upload":
		return s.handleUpload(args)
	case "editor_save":
		return s.handleSave(args)
	case "editor_state":
		return s.editor.State()
	case "editor_set_viewport":
		return s.handleSetViewport(args)
	case "editor_preview":
		return s.handlePreview(args)

	// History
	case "editor_undo":
		return s.stateAfter(s.editor.Undo())
	case "editor_redo":
		return s.stateAfter(s.editor.Redo())
	case "editor_revert":
		return s.stateAfter(s.editor.Revert())

	// Edits
	case "editor_apply_filter":
		return s.handleApplyFilter(args)
	case "editor_draw":
		return s.handleDraw(args)
	case "editor_add_text":
		return s.handleAddText(args)
	case "editor_crop":
		return s.handleCrop(args)
	case "editor_adjust_brightness":
		return s.handleSlider(args, s.editor.AdjustBrightness)
	case "editor_adjust_blur":
		return s.handleSlider(args, s.editor.AdjustBlur)
	case "editor_remove_background":
		return s.stateAfter(s.editor.RemoveBackground(context.Background()))

	// Inspection
	case "editor_pick_color":
		return s.handlePickColor(args)
	case "editor_ocr":
		return s.handleOCR(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating missing arguments as an empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// stateAfter reports the editor state once a committing action has succeeded.
func (s *Server) stateAfter(err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return s.editor.State()
}

// penColor parses an optional colour argument, falling back to the pen colour.
func (s *Server) penColor(arg string) (color.NRGBA, error) {
	if arg == "" {
		return s.editor.DrawSettings().Color, nil
	}
	return imaging.ParseColor(arg)
}

// === Session Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleUpload(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.editor.Upload(a.Path); err != nil {
		return nil, err
	}
	return s.editor.State()
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.editor.Save(a.Path); err != nil {
		return nil, err
	}
	return map[string]interface{}{"saved": a.Path}, nil
}

func (s *Server) handleSetViewport(args json.RawMessage) (interface{}, error) {
	var a viewport.Viewport
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.editor.SetViewport(a); err != nil {
		return nil, err
	}
	if s.editor.Session() == nil {
		return a, nil
	}
	return s.editor.State()
}

type previewArgs struct {
	GridSpacing int `json:"grid_spacing"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.editor.Preview(a.GridSpacing)
	if err != nil {
		return nil, err
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &ImageResult{
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		Width:       img.Rect.Dx(),
		Height:      img.Rect.Dy(),
		Scale:       s.editor.Session().Scale(),
	}, nil
}

// === Edit Handlers ===

type applyFilterArgs struct {
	Filter string `json:"filter"`
}

func (s *Server) handleApplyFilter(args json.RawMessage) (interface{}, error) {
	var a applyFilterArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.stateAfter(s.editor.ApplyFilter(session.Filter(a.Filter)))
}

type pointArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type drawArgs struct {
	Points []pointArgs `json:"points"`
	Color  string      `json:"color"`
	Width  int         `json:"width"`
}

func (s *Server) handleDraw(args json.RawMessage) (interface{}, error) {
	var a drawArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := s.penColor(a.Color)
	if err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = s.editor.DrawSettings().LineWidth
	}

	points := make([]image.Point, len(a.Points))
	for i, p := range a.Points {
		points[i] = image.Pt(p.X, p.Y)
	}
	if len(points) == 2 {
		return s.stateAfter(s.editor.DrawLine(points[0], points[1], c, a.Width))
	}
	return s.stateAfter(s.editor.Draw(points, c, a.Width))
}

type addTextArgs struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

func (s *Server) handleAddText(args json.RawMessage) (interface{}, error) {
	var a addTextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := s.penColor(a.Color)
	if err != nil {
		return nil, err
	}
	return s.stateAfter(s.editor.AddText(image.Pt(a.X, a.Y), a.Text, c))
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type cropArgs struct {
	regionArgs
	Region string `json:"region"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Region != "" {
		return s.stateAfter(s.editor.CropNamed(imaging.CropRegion(a.Region)))
	}
	return s.stateAfter(s.editor.Crop(image.Pt(a.X1, a.Y1), image.Pt(a.X2, a.Y2)))
}

type sliderArgs struct {
	Value  int  `json:"value"`
	Commit bool `json:"commit"`
}

func (s *Server) handleSlider(args json.RawMessage, adjust func(value int, committed bool) error) (interface{}, error) {
	var a sliderArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.stateAfter(adjust(a.Value, a.Commit))
}

// === Inspection Handlers ===

func (s *Server) handlePickColor(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.editor.PickColor(image.Pt(a.X, a.Y))
}

type ocrArgs struct {
	regionArgs
	RegionsOnly   bool    `json:"regions_only"`
	MinConfidence float64 `json:"min_confidence"`
}

func (s *Server) handleOCR(args json.RawMessage) (interface{}, error) {
	var a ocrArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.RegionsOnly {
		if a.MinConfidence == 0 {
			a.MinConfidence = 0.5
		}
		return s.editor.DetectText(a.MinConfidence)
	}
	return s.editor.ReadText(image.Rect(a.X1, a.Y1, a.X2, a.Y2))
}
