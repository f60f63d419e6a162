package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createSplitImageFile writes a PNG whose left half is left and right half
// is right, and returns its path.
func createSplitImageFile(t *testing.T, width, height int, left, right color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeContent unmarshals the text content of a successful tool response.
func decodeContent(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %#v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 40, 20, red, blue)

	var info struct {
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Format   string `json:"format"`
		HasAlpha bool   `json:"has_alpha"`
	}
	decodeContent(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)

	if info.Width != 40 || info.Height != 20 {
		t.Errorf("size: got %dx%d, want 40x20", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.HasAlpha {
		t.Error("opaque image reported alpha")
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 30, 12, red, blue)

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	decodeContent(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": path}), &dims)

	if dims.Width != 30 || dims.Height != 12 {
		t.Errorf("size: got %dx%d, want 30x12", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_RenderDefaults(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 40, 20, red, blue)

	var res RenderResult
	decodeContent(t, callTool(t, s, "pixelart_render", map[string]interface{}{"path": path}), &res)

	// 64 wide at the source's 2:1 aspect, then 8x.
	if res.Width != 512 || res.Height != 256 {
		t.Errorf("size: got %dx%d, want 512x256", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime_type: got %s", res.MimeType)
	}
	if res.PaletteSource != "standard" {
		t.Errorf("palette_source: got %s, want standard", res.PaletteSource)
	}
	if len(res.PaletteUsage) == 0 {
		t.Error("palette_usage is empty")
	}

	img := decodePNG(t, res.ImageBase64)
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 256 {
		t.Errorf("PNG size: got %dx%d, want 512x256", b.Dx(), b.Dy())
	}
}

func TestHandleToolsCall_RenderCustomPalette(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 40, 20, red, blue)

	var res RenderResult
	decodeContent(t, callTool(t, s, "pixelart_render", map[string]interface{}{
		"path":     path,
		"width":    10,
		"height":   4,
		"scale_up": 2,
		"palette":  "#FF0000, bogus,#0000FF",
	}), &res)

	if res.Width != 20 || res.Height != 8 {
		t.Errorf("size: got %dx%d, want 20x8", res.Width, res.Height)
	}
	if res.PaletteSource != "custom" {
		t.Errorf("palette_source: got %s, want custom", res.PaletteSource)
	}
	if len(res.DroppedTokens) != 1 || res.DroppedTokens[0] != "bogus" {
		t.Errorf("dropped_tokens: got %v, want [bogus]", res.DroppedTokens)
	}

	usage := map[string]int{}
	for _, u := range res.PaletteUsage {
		usage[u.Hex] = u.Pixels
	}
	if len(usage) != 2 || usage["#FF0000"] != 80 || usage["#0000FF"] != 80 {
		t.Errorf("palette_usage: got %v, want 80 red and 80 blue", usage)
	}
}

func TestHandleToolsCall_RenderOutputPath(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 16, 16, red, blue)
	out := filepath.Join(t.TempDir(), "out.png")

	var res RenderResult
	decodeContent(t, callTool(t, s, "pixelart_render", map[string]interface{}{
		"path":           path,
		"output_path":    out,
		"width":          8,
		"scale_up":       1,
		"color_blocking": true,
	}), &res)

	if res.OutputPath != out {
		t.Errorf("output_path: got %s, want %s", res.OutputPath, out)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("output size: got %dx%d, want 8x8", b.Dx(), b.Dy())
	}
}

func TestHandleToolsCall_RenderErrors(t *testing.T) {
	path := createSplitImageFile(t, 8, 8, red, blue)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing file", map[string]interface{}{"path": "/nonexistent/image.png"}},
		{"bad tint", map[string]interface{}{"path": path, "tint": "red"}},
		{"negative width", map[string]interface{}{"path": path, "width": -4}},
		{"negative scale", map[string]interface{}{"path": path, "scale_up": -1}},
		{"required palette empty", map[string]interface{}{"path": path, "palette": "nope", "require_palette": true}},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "pixelart_render", tt.args)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_PaletteValidate(t *testing.T) {
	s := New()

	var res PaletteResult
	decodeContent(t, callTool(t, s, "pixelart_palette", map[string]interface{}{
		"palette": "#ff8800,#12,#00FF00",
	}), &res)

	if res.Source != "custom" {
		t.Errorf("source: got %s, want custom", res.Source)
	}
	want := []string{"#FF8800", "#00FF00"}
	if res.Count != 2 || len(res.Colors) != 2 || res.Colors[0] != want[0] || res.Colors[1] != want[1] {
		t.Errorf("colors: got %v, want %v", res.Colors, want)
	}
	if len(res.DroppedTokens) != 1 || res.DroppedTokens[0] != "#12" {
		t.Errorf("dropped_tokens: got %v, want [#12]", res.DroppedTokens)
	}
}

func TestHandleToolsCall_PaletteDerive(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 32, 32, red, red)

	var res PaletteResult
	decodeContent(t, callTool(t, s, "pixelart_palette", map[string]interface{}{"path": path}), &res)

	if res.Source != "derived" {
		t.Errorf("source: got %s, want derived", res.Source)
	}
	if res.Count != 1 || res.Colors[0] != "#FF0000" {
		t.Errorf("colors: got %v, want [#FF0000]", res.Colors)
	}
}

func TestHandleToolsCall_OversizedWorkingSize(t *testing.T) {
	s := New()
	path := createSplitImageFile(t, 32, 32, red, blue)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"palette width", "pixelart_palette", map[string]interface{}{"path": path, "width": 200000}},
		{"palette colors", "pixelart_palette", map[string]interface{}{"path": path, "colors": 100000}},
		{"render size", "pixelart_render", map[string]interface{}{"path": path, "width": 200000, "height": 200000, "scale_up": 0.001}},
		{"render palette", "pixelart_render", map[string]interface{}{"path": path, "palette": strings.Repeat("#102030,", 300)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error for oversized request")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	resp := callTool(t, New(), "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("Expected error for invalid tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`not valid json`)})
	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()
	for _, name := range []string{"image_load", "image_dimensions", "pixelart_render", "pixelart_palette"} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.executeTool(name, json.RawMessage(`{invalid`)); err == nil {
				t.Error("expected error for invalid JSON")
			}
		})
	}
}

func TestRenderArgs_Params(t *testing.T) {
	zero := 0
	thr := 0.0

	tests := []struct {
		name  string
		args  pixelartRenderArgs
		check func(t *testing.T, a pixelartRenderArgs)
	}{
		{
			name: "defaults keep aspect",
			args: pixelartRenderArgs{},
			check: func(t *testing.T, a pixelartRenderArgs) {
				p, err := a.params(400, 100)
				if err != nil {
					t.Fatal(err)
				}
				if p.Width != 64 || p.Height != 16 {
					t.Errorf("size: got %dx%d, want 64x16", p.Width, p.Height)
				}
				if p.Colors != 16 || p.ScaleUp != 8 || p.MinRegionSize != 4 || p.SmoothingIterations != 1 || p.SimilarityThreshold != 50 {
					t.Errorf("defaults not applied: %+v", p)
				}
				if p.Tint != nil {
					t.Error("tint should be unset")
				}
			},
		},
		{
			name: "explicit zeros override defaults",
			args: pixelartRenderArgs{MinRegionSize: &zero, SmoothingIterations: &zero, SimilarityThreshold: &thr},
			check: func(t *testing.T, a pixelartRenderArgs) {
				p, err := a.params(10, 10)
				if err != nil {
					t.Fatal(err)
				}
				if p.MinRegionSize != 0 || p.SmoothingIterations != 0 || p.SimilarityThreshold != 0 {
					t.Errorf("explicit zeros lost: %+v", p)
				}
			},
		},
		{
			name: "tint parsed",
			args: pixelartRenderArgs{Tint: "#102030"},
			check: func(t *testing.T, a pixelartRenderArgs) {
				p, err := a.params(10, 10)
				if err != nil {
					t.Fatal(err)
				}
				if p.Tint == nil || p.Tint.R != 0x10 || p.Tint.G != 0x20 || p.Tint.B != 0x30 {
					t.Errorf("tint: got %+v", p.Tint)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.args)
		})
	}
}
