package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pixel Art
		{
			Name:        "pixelart_render",
			Description: "Convert an image into pixel art: tonal adjustment, nearest-neighbor downscale, palette quantization with optional dithering, optional color blocking with region cleanup, then nearest-neighbor upscale. Returns a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the PNG to",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Working width in pixels. Default 64",
						"default":     64,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Working height in pixels. Default keeps the source aspect ratio",
					},
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Palette size for derived and standard palettes. Default 16",
						"default":     16,
					},
					"scale_up": map[string]interface{}{
						"type":        "number",
						"description": "Nearest-neighbor magnification of the result. Default 8",
						"default":     8,
					},
					"brightness": map[string]interface{}{
						"type":        "number",
						"description": "Brightness delta, 0 = unchanged (e.g., 0.2 brightens by 20%)",
					},
					"contrast": map[string]interface{}{
						"type":        "number",
						"description": "Contrast delta, 0 = unchanged",
					},
					"saturation": map[string]interface{}{
						"type":        "number",
						"description": "Saturation delta, 0 = unchanged, -1 = grayscale",
					},
					"dithering": map[string]interface{}{
						"type":        "boolean",
						"description": "Enable Floyd-Steinberg dithering during quantization",
					},
					"tint": map[string]interface{}{
						"type":        "string",
						"description": "Optional tint color as #RRGGBB",
					},
					"edge_enhance": map[string]interface{}{
						"type":        "number",
						"description": "Edge sharpening amount, 0 = off",
					},
					"posterize": map[string]interface{}{
						"type":        "integer",
						"description": "Binary cutoff level; channels >= level*16 become 255, others 0. 0 = off",
					},
					"color_blocking": map[string]interface{}{
						"type":        "boolean",
						"description": "Group pixels into flat color regions with cleanup and smoothing",
					},
					"similarity_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Blocking balance 0-100; higher favours color accuracy over spatial coherence. Default 50",
						"default":     50,
					},
					"min_region_size": map[string]interface{}{
						"type":        "integer",
						"description": "Regions smaller than this are merged into a neighbor. Default 4, 1 = off",
						"default":     4,
					},
					"smoothing_iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Majority-vote smoothing passes after blocking. Default 1",
						"default":     1,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Optional comma-separated #RRGGBB palette; malformed entries are ignored",
					},
					"require_palette": map[string]interface{}{
						"type":        "boolean",
						"description": "Fail instead of deriving a palette when no palette entry is valid",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixelart_palette",
			Description: "Validate a palette string, or derive a palette from an image at the working resolution. Returns the colors as #RRGGBB.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Working width used for derivation. Default 64",
						"default":     64,
					},
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of derived colors. Default 16",
						"default":     16,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated #RRGGBB list to validate instead of deriving",
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
