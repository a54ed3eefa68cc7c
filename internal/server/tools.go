package server

import "github.com/ironsheep/pixpack/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var formatProperty = map[string]interface{}{
	"type":        "string",
	"enum":        losslessFormatNames(),
	"description": "Container format for the carrier image. Defaults to the output file extension, or png.",
}

func losslessFormatNames() []string {
	var names []string
	for _, f := range imaging.LosslessFormats() {
		names = append(names, string(f))
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Encoding and Decoding
		{
			Name:        "carrier_pack",
			Description: "Pack arbitrary bytes into a lossless carrier image. The first pixel stores the byte count; the payload follows four bytes per pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data_base64": map[string]interface{}{
						"type":        "string",
						"description": "Payload bytes, base64 encoded. Ignored when input_path is set.",
					},
					"input_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a file whose bytes are the payload",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to write the carrier image. If omitted, the image is returned base64 encoded.",
					},
					"format": formatProperty,
				},
			},
		},
		{
			Name:        "carrier_unpack",
			Description: "Recover the exact bytes stored in a carrier image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Carrier image bytes, base64 encoded. Used when path is omitted.",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to write the recovered bytes. If omitted, they are returned base64 encoded.",
					},
				},
			},
		},
		{
			Name:        "carrier_plan",
			Description: "Compute the grid a payload of the given length would be packed into, without encoding anything.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"length": map[string]interface{}{
						"type":        "integer",
						"description": "Payload length in bytes",
					},
				},
				"required": []string{"length"},
			},
		},

		// Inspection
		{
			Name:        "carrier_inspect",
			Description: "Load a carrier image and report its dimensions, container format, declared payload length, and capacity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "carrier_dimensions",
			Description: "Get the width and height of a carrier image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "carrier_sample",
			Description: "Read the raw channel bytes of one carrier pixel and report whether it is the header, payload, or padding.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "carrier_sample_multi",
			Description: "Read the raw channel bytes at multiple carrier pixels in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "carrier_preview",
			Description: "Return an enlarged PNG rendering of a carrier image so its pixels can be seen.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer magnification. 0 or omitted picks a scale that fits 256 pixels.",
						"default":     0,
					},
					"opaque": map[string]interface{}{
						"type":        "boolean",
						"description": "Render every pixel fully opaque (default true)",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "carrier_grid_overlay",
			Description: "Render an enlarged carrier with a border around every pixel. Cells large enough get their linear index on a background marking the header (red), payload (black), or padding (gray).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the carrier image",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Cell size in output pixels. 0 or omitted picks a scale that fits 256 pixels. Labels need at least 9.",
						"default":     0,
					},
					"show_indices": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each cell with its linear index (default true)",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Border color as #RRGGBB or #RRGGBBAA (default #FF00FF)",
					},
				},
				"required": []string{"path"},
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
