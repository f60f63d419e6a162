package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
	"github.com/ironsheep/pixelart-mcp/internal/palette"
	"github.com/ironsheep/pixelart-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "pixelart_render").
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
//  3. Loads images from cache as needed
//  4. Calls the imaging/palette/pipeline function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Pixel Art
	case "pixelart_render":
		return s.handlePixelartRender(args)
	case "pixelart_palette":
		return s.handlePixelartPalette(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pixel Art Handlers ===

// pixelartRenderArgs mirrors pipeline.Params. Fields where zero is a
// meaningful setting are pointers so that "absent" can take the default.
type pixelartRenderArgs struct {
	Path                string   `json:"path"`
	OutputPath          string   `json:"output_path"`
	Width               int      `json:"width"`
	Height              int      `json:"height"`
	Colors              int      `json:"colors"`
	ScaleUp             float64  `json:"scale_up"`
	Brightness          float64  `json:"brightness"`
	Contrast            float64  `json:"contrast"`
	Saturation          float64  `json:"saturation"`
	Dithering           bool     `json:"dithering"`
	Tint                string   `json:"tint"`
	EdgeEnhance         float64  `json:"edge_enhance"`
	Posterize           int      `json:"posterize"`
	ColorBlocking       bool     `json:"color_blocking"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	MinRegionSize       *int     `json:"min_region_size"`
	SmoothingIterations *int     `json:"smoothing_iterations"`
	Palette             string   `json:"palette"`
	RequirePalette      bool     `json:"require_palette"`
}

// RenderResult contains the stylized image encoded as base64 PNG.
type RenderResult struct {
	Width         int                      `json:"width"`
	Height        int                      `json:"height"`
	ImageBase64   string                   `json:"image_base64"`
	MimeType      string                   `json:"mime_type"`
	PaletteSource string                   `json:"palette_source"`
	Palette       []string                 `json:"palette,omitempty"`
	DroppedTokens []string                 `json:"dropped_tokens,omitempty"`
	PaletteUsage  []imaging.ColorFrequency `json:"palette_usage"`
	RegionsMerged int                      `json:"regions_merged"`
	OutputPath    string                   `json:"output_path,omitempty"`
}

// params converts tool arguments into pipeline parameters, filling defaults
// from pipeline.DefaultParams. The source size is needed to preserve the
// aspect ratio when no height is given.
func (a *pixelartRenderArgs) params(srcW, srcH int) (pipeline.Params, error) {
	p := pipeline.DefaultParams()
	if a.Width != 0 {
		p.Width = a.Width
	}
	p.Height = a.Height
	if p.Height == 0 {
		p.Height = pipeline.AspectHeight(p.Width, srcW, srcH)
	}
	if a.Colors != 0 {
		p.Colors = a.Colors
	}
	if a.ScaleUp != 0 {
		p.ScaleUp = a.ScaleUp
	}
	p.Brightness = a.Brightness
	p.Contrast = a.Contrast
	p.Saturation = a.Saturation
	p.Dither = a.Dithering
	p.EdgeEnhance = a.EdgeEnhance
	p.Posterize = a.Posterize
	p.ColorBlocking = a.ColorBlocking
	if a.SimilarityThreshold != nil {
		p.SimilarityThreshold = *a.SimilarityThreshold
	}
	if a.MinRegionSize != nil {
		p.MinRegionSize = *a.MinRegionSize
	}
	if a.SmoothingIterations != nil {
		p.SmoothingIterations = *a.SmoothingIterations
	}
	p.CustomPalette = a.Palette
	p.RequireCustomPalette = a.RequirePalette

	if a.Tint != "" {
		tint, err := imaging.ParseHex(a.Tint)
		if err != nil {
			return p, fmt.Errorf("invalid tint: %w", err)
		}
		p.Tint = &tint
	}
	return p, nil
}

func (s *Server) handlePixelartRender(args json.RawMessage) (interface{}, error) {
	var a pixelartRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, err := a.params(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.renderer.StylizeContext(ctx, src, p)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", a.Path, err)
	}
	if s.debug {
		log.Printf("pixelart_render %s: %dx%d -> %dx%d, %d colors (%s) in %v",
			a.Path, src.Width, src.Height, res.Image.Width, res.Image.Height,
			p.Colors, res.PaletteSource, time.Since(start))
	}

	if a.OutputPath != "" {
		if err := imaging.Save(res.Image, a.OutputPath); err != nil {
			return nil, err
		}
	}

	encoded, err := imaging.EncodePNG(res.Image)
	if err != nil {
		return nil, err
	}

	var hexes []string
	for _, c := range res.Palette {
		hexes = append(hexes, c.Hex())
	}

	return &RenderResult{
		Width:         res.Image.Width,
		Height:        res.Image.Height,
		ImageBase64:   base64.StdEncoding.EncodeToString(encoded),
		MimeType:      "image/png",
		PaletteSource: res.PaletteSource,
		Palette:       hexes,
		DroppedTokens: res.DroppedTokens,
		PaletteUsage:  imaging.PaletteUsage(res.Image),
		RegionsMerged: res.RegionsMerged,
		OutputPath:    a.OutputPath,
	}, nil
}

type pixelartPaletteArgs struct {
	Path    string `json:"path"`
	Width   int    `json:"width"`
	Colors  int    `json:"colors"`
	Palette string `json:"palette"`
}

// PaletteResult lists palette colors as "#RRGGBB" strings.
type PaletteResult struct {
	Source        string   `json:"source"`
	Colors        []string `json:"colors"`
	Count         int      `json:"count"`
	DroppedTokens []string `json:"dropped_tokens,omitempty"`
}

// handlePixelartPalette validates a palette string when one is given, and
// otherwise derives a palette from the image at the working resolution.
func (s *Server) handlePixelartPalette(args json.RawMessage) (interface{}, error) {
	var a pixelartPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.Palette != "" {
		pal, dropped := palette.Parse(a.Palette)
		return newPaletteResult(pipeline.SourceCustom, pal, dropped), nil
	}

	if a.Width == 0 {
		a.Width = 64
	}
	if a.Colors == 0 {
		a.Colors = 16
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p := pipeline.DefaultParams()
	p.Width, p.Height = a.Width, pipeline.AspectHeight(a.Width, src.Width, src.Height)
	p.Colors, p.ScaleUp = a.Colors, 1
	if err := p.Validate(); err != nil {
		return nil, err
	}
	small, err := imaging.Resize(src, p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	return newPaletteResult(pipeline.SourceDerived, palette.Derive(small, p.Colors), nil), nil
}

func newPaletteResult(source string, pal imaging.Palette, dropped []string) *PaletteResult {
	colors := make([]string, len(pal))
	for i, c := range pal {
		colors[i] = c.Hex()
	}
	return &PaletteResult{
		Source:        source,
		Colors:        colors,
		Count:         len(colors),
		DroppedTokens: dropped,
	}
}
