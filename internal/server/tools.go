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

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session workflow
		{
			Name:        "zyron_load",
			Description: "Load a word image (PNG, JPEG, GIF, BMP or TIFF) and start a new recognition session. Allowed when no word is in progress.",
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
			Name:        "zyron_segment",
			Description: "Split the loaded word into character slots at blank columns and normalize each slot. Optionally returns a base64 PNG with slot boundaries drawn in.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Include an overlay image of the slot boundaries. Default false",
						"default":     false,
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color of the boundary lines. Default #FF0000",
						"default":     "#FF0000",
					},
				},
			},
		},
		{
			Name:        "zyron_match",
			Description: "Score every slot against the exemplar library. Sends notifications/progress after each slot and returns the best letters per slot.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"top": map[string]interface{}{
						"type":        "integer",
						"description": "Letters to return per slot (1-26). Default 5",
						"default":     5,
					},
				},
			},
		},
		{
			Name:        "zyron_rank",
			Description: "Rank dictionary words of the right length by summed slot confidence and wait for confirmation.",
			InputSchema: noArgs(),
		},
		{
			Name:        "zyron_confirm",
			Description: "Confirm the word shown in the image. May be a ranked candidate or a typed correction of the same length. Stores every slot as a new exemplar and adds the word to the dictionary if it is new.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"word": map[string]interface{}{
						"type":        "string",
						"description": "Lowercase word, one letter per slot",
					},
				},
				"required": []string{"word"},
			},
		},
		{
			Name:        "zyron_discard",
			Description: "Abandon the current word without changing the library or dictionary.",
			InputSchema: noArgs(),
		},

		// Inspection
		{
			Name:        "zyron_status",
			Description: "Report the session state, its history, active settings and whether OCR hints are available.",
			InputSchema: noArgs(),
		},
		{
			Name:        "zyron_slot_preview",
			Description: "Return one slot as a base64 PNG together with its normalized ink mask.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based slot index",
					},
					"ink": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for ink pixels in the mask. Default #000000",
						"default":     "#000000",
					},
					"paper": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for background pixels in the mask. Default #FFFFFF",
						"default":     "#FFFFFF",
					},
				},
				"required": []string{"index"},
			},
		},
		{
			Name:        "zyron_ocr_hint",
			Description: "Ask Tesseract for a single-word reading of the loaded image, to pre-fill a correction. Requires a build with the tesseract tag.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default from config (eng)",
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
