package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"editor_upload",
		"editor_save",
		"editor_undo",
		"editor_redo",
		"editor_revert",
		"editor_apply_filter",
		"editor_draw",
		"editor_add_text",
		"editor_crop",
		"editor_adjust_brightness",
		"editor_adjust_blur",
		"editor_remove_background",
		"editor_pick_color",
		"editor_set_viewport",
		"editor_preview",
		"editor_state",
		"editor_ocr",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}

			// InputSchema should be an object type
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required field must be a declared property
			required, ok := tool.InputSchema["required"]
			if !ok {
				return
			}
			requiredList, ok := required.([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range requiredList {
				if _, ok := props[r]; !ok {
					t.Errorf("required field %q is not a property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_EveryToolDispatches(t *testing.T) {
	s := newTestServer(t)
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			// With no image loaded every tool fails, but none may be unknown.
			_, err := s.executeTool(tool.Name, nil)
			if err != nil && err.Error() == "unknown tool: "+tool.Name {
				t.Errorf("tool %s is not dispatched", tool.Name)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(toolsList))
	}
}
