package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/pixpack/internal/carrier"
	"github.com/ironsheep/pixpack/internal/codec"
	"github.com/ironsheep/pixpack/internal/imaging"
	"go.uber.org/zap"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "carrier_pack", "carrier_unpack").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Encoding and Decoding
	case "carrier_pack":
		return s.handleCarrierPack(args)
	case "carrier_unpack":
		return s.handleCarrierUnpack(args)
	case "carrier_plan":
		return s.handleCarrierPlan(args)

	// Inspection
	case "carrier_inspect":
		return s.handleCarrierInspect(args)
	case "carrier_dimensions":
		return s.handleCarrierDimensions(args)
	case "carrier_sample":
		return s.handleCarrierSample(args)
	case "carrier_sample_multi":
		return s.handleCarrierSampleMulti(args)
	case "carrier_preview":
		return s.handleCarrierPreview(args)
	case "carrier_grid_overlay":
		return s.handleCarrierGridOverlay(args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Encoding and Decoding Handlers ===

type carrierPackArgs struct {
	DataBase64 string `json:"data_base64"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Format     string `json:"format"`
}

// PackResult describes a packed carrier.
type PackResult struct {
	codec.Layout
	Format      imaging.Format `json:"format"`
	OutputPath  string         `json:"output_path,omitempty"`
	ImageBase64 string         `json:"image_base64,omitempty"`
	MimeType    string         `json:"mime_type,omitempty"`
}

func (s *Server) handleCarrierPack(args json.RawMessage) (interface{}, error) {
	var a carrierPackArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var data []byte
	if a.InputPath != "" {
		b, err := os.ReadFile(a.InputPath)
		if err != nil {
			return nil, &imaging.IOError{Op: "read", Target: a.InputPath, Err: err}
		}
		data = b
	} else {
		b, err := base64.StdEncoding.DecodeString(a.DataBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid data_base64: %w", err)
		}
		data = b
	}

	var explicit imaging.Format
	if a.Format != "" {
		f, err := imaging.ParseFormat(a.Format)
		if err != nil {
			return nil, err
		}
		explicit = f
	}
	format, err := carrier.ResolveFormat(a.OutputPath, explicit)
	if err != nil {
		return nil, err
	}

	g, layout, err := carrier.PackBytes(data)
	if err != nil {
		return nil, err
	}

	result := &PackResult{Layout: layout, Format: format}
	if a.OutputPath != "" {
		if err := imaging.Save(a.OutputPath, g, format); err != nil {
			return nil, err
		}
		s.cache.Evict(a.OutputPath)
		result.OutputPath = a.OutputPath
		return result, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, g, format); err != nil {
		return nil, err
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	result.MimeType = format.MimeType()
	return result, nil
}

type carrierUnpackArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
	OutputPath  string `json:"output_path"`
}

// UnpackResult describes a recovered payload.
type UnpackResult struct {
	Length     int            `json:"length"`
	Format     imaging.Format `json:"format"`
	OutputPath string         `json:"output_path,omitempty"`
	DataBase64 string         `json:"data_base64,omitempty"`
}

func (s *Server) handleCarrierUnpack(args json.RawMessage) (interface{}, error) {
	var a carrierUnpackArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var g *imaging.Grid
	switch {
	case a.Path != "":
		loaded, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		g = loaded
	case a.ImageBase64 != "":
		raw, err := base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid image_base64: %w", err)
		}
		decoded, _, err := imaging.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		g = decoded
	default:
		return nil, errors.New("one of path or image_base64 is required")
	}

	data, err := codec.Unpack(g)
	if err != nil {
		return nil, err
	}

	result := &UnpackResult{Length: len(data), Format: g.Format()}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, data, 0o644); err != nil {
			return nil, &imaging.IOError{Op: "write", Target: a.OutputPath, Err: err}
		}
		s.cache.Evict(a.OutputPath)
		result.OutputPath = a.OutputPath
		return result, nil
	}
	result.DataBase64 = base64.StdEncoding.EncodeToString(data)
	return result, nil
}

type carrierPlanArgs struct {
	Length int `json:"length"`
}

func (s *Server) handleCarrierPlan(args json.RawMessage) (interface{}, error) {
	var a carrierPlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	layout, err := codec.Plan(a.Length)
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

// === Inspection Handlers ===

type carrierPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleCarrierInspect(args json.RawMessage) (interface{}, error) {
	var a carrierPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadCarrierInfo(s.cache, a.Path)
}

func (s *Server) handleCarrierDimensions(args json.RawMessage) (interface{}, error) {
	var a carrierPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type carrierSampleArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleCarrierSample(args json.RawMessage) (interface{}, error) {
	var a carrierSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SamplePixel(g, a.X, a.Y)
}

type carrierSampleMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleCarrierSampleMulti(args json.RawMessage) (interface{}, error) {
	var a carrierSampleMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SamplePixels(g, points)
}

type carrierPreviewArgs struct {
	Path   string `json:"path"`
	Scale  int    `json:"scale"`
	Opaque *bool  `json:"opaque"`
}

func (s *Server) handleCarrierPreview(args json.RawMessage) (interface{}, error) {
	var a carrierPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opaque := true
	if a.Opaque != nil {
		opaque = *a.Opaque
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(g, a.Scale, opaque)
}

type carrierGridOverlayArgs struct {
	Path        string `json:"path"`
	Scale       int    `json:"scale"`
	ShowIndices *bool  `json:"show_indices"`
	GridColor   string `json:"grid_color"`
}

func (s *Server) handleCarrierGridOverlay(args json.RawMessage) (interface{}, error) {
	var a carrierGridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	showIndices := true
	if a.ShowIndices != nil {
		showIndices = *a.ShowIndices
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.GridOverlay(g, a.Scale, showIndices, a.GridColor)
}
