package palette

import (
	"testing"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

func distinctColors(b *imaging.Buffer) int {
	seen := map[imaging.Color]bool{}
	for i := 0; i < b.Len(); i++ {
		seen[b.RGB(i)] = true
	}
	return len(seen)
}

func TestMedianCut_ColorLimit(t *testing.T) {
	src := noiseBuffer(40, 30)
	before := src.Clone()

	tests := []struct {
		name   string
		colors int
		dither bool
		max    int
	}{
		{"sixteen", 16, false, 16},
		{"four dithered", 4, true, 4},
		{"one", 1, false, 1},
		{"zero clamps to one", 0, false, 1},
		{"huge clamps to 256", 10000, false, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MedianCut{}.Quantize(src, tt.colors, tt.dither)
			if err != nil {
				t.Fatalf("Quantize: %v", err)
			}
			if out.Width != src.Width || out.Height != src.Height || out.Channels != src.Channels {
				t.Fatalf("geometry %dx%dx%d, want %dx%dx%d",
					out.Width, out.Height, out.Channels, src.Width, src.Height, src.Channels)
			}
			if n := distinctColors(out); n < 1 || n > tt.max {
				t.Errorf("%d distinct colors, want 1..%d", n, tt.max)
			}
		})
	}

	for i := range src.Pix {
		if src.Pix[i] != before.Pix[i] {
			t.Fatal("MedianCut modified its input")
		}
	}
}

func TestMedianCut_TwoColorsExact(t *testing.T) {
	red := imaging.Color{R: 255}
	b := filledBuffer(t, 8, 8, 3, red)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			b.Set(x, y, white)
		}
	}

	out, err := MedianCut{}.Quantize(b, 16, false)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0) != red || out.At(7, 7) != white {
		t.Errorf("got %v and %v, want exact red and white", out.At(0, 0), out.At(7, 7))
	}
}

func TestMedianCut_PreservesAlpha(t *testing.T) {
	b := noiseBuffer(10, 10)
	for i := 0; i < b.Len(); i++ {
		b.Pix[i*4+3] = 40
	}
	for _, dither := range []bool{false, true} {
		out, err := MedianCut{}.Quantize(b, 8, dither)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < out.Len(); i++ {
			if out.Alpha(i) != 40 {
				t.Fatalf("dither=%v: alpha of pixel %d = %d, want 40", dither, i, out.Alpha(i))
			}
		}
	}
}

func TestMedianCut_ImplementsStandardQuantizer(t *testing.T) {
	var _ StandardQuantizer = MedianCut{}
}
