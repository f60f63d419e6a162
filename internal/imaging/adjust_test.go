package imaging

import (
	"testing"
)

func filled(t *testing.T, w, h, ch int, c Color, alpha uint8) *Buffer {
	t.Helper()
	b, err := NewBuffer(w, h, ch)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < b.Len(); i++ {
		b.SetRGB(i, c)
		if ch == 4 {
			b.Pix[i*4+3] = alpha
		}
	}
	return b
}

func samePix(a, b *Buffer) bool {
	if a.Width != b.Width || a.Height != b.Height || a.Channels != b.Channels || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func TestModulate(t *testing.T) {
	tests := []struct {
		name       string
		in         Color
		brightness float64
		saturation float64
		want       Color
	}{
		{"identity", Color{100, 50, 10}, 0, 0, Color{100, 50, 10}},
		{"double brightness", Color{100, 50, 10}, 1, 0, Color{200, 100, 20}},
		{"clamped brightness", Color{200, 100, 20}, 1, 0, Color{255, 200, 40}},
		{"desaturate to luma", Color{255, 0, 0}, 0, -1, Color{76, 76, 76}},
		{"black stays black", Color{0, 0, 0}, 0.5, 0.5, Color{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filled(t, 2, 2, 4, tt.in, 90)
			out := Modulate(src, tt.brightness, tt.saturation)
			if got := out.At(1, 1); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if out.Alpha(3) != 90 {
				t.Errorf("alpha changed to %d", out.Alpha(3))
			}
			if src.At(1, 1) != tt.in {
				t.Error("source modified")
			}
		})
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		in    Color
		want  Color
	}{
		{"up", 1, Color{100, 200, 0}, Color{150, 255, 0}},
		{"down", -1, Color{100, 200, 1}, Color{50, 100, 1}},
		{"floor", -2, Color{100, 200, 255}, Color{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Contrast(filled(t, 1, 1, 3, tt.in, 0), tt.delta)
			if out.Channels != 3 {
				t.Errorf("channels = %d, want 3", out.Channels)
			}
			if got := out.At(0, 0); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgeEnhance(t *testing.T) {
	t.Run("disabled returns input", func(t *testing.T) {
		src := filled(t, 3, 3, 3, Color{10, 20, 30}, 0)
		if EdgeEnhance(src, 0) != src || EdgeEnhance(src, -1) != src {
			t.Error("non-positive amount should skip the stage")
		}
	})

	t.Run("flat image unchanged", func(t *testing.T) {
		src := filled(t, 4, 4, 4, Color{100, 150, 200}, 255)
		out := EdgeEnhance(src, 0.5)
		if !samePix(src, out) {
			t.Error("flat image changed")
		}
	})

	t.Run("edge contrast grows", func(t *testing.T) {
		src := filled(t, 4, 1, 3, Color{100, 100, 100}, 0)
		src.Set(2, 0, Color{200, 200, 200})
		src.Set(3, 0, Color{200, 200, 200})
		out := EdgeEnhance(src, 1)
		if out.At(1, 0).R >= 100 {
			t.Errorf("dark side of edge = %d, want < 100", out.At(1, 0).R)
		}
		if out.At(2, 0).R <= 200 {
			t.Errorf("bright side of edge = %d, want > 200", out.At(2, 0).R)
		}
		if out.Channels != 3 {
			t.Errorf("channels = %d, want 3", out.Channels)
		}
	})
}

func TestPosterize(t *testing.T) {
	src := filled(t, 2, 1, 3, Color{127, 128, 255}, 0)
	src.Set(1, 0, Color{0, 200, 100})

	if Posterize(src, 0) != src {
		t.Error("level 0 should skip the stage")
	}

	out := Posterize(src, 8) // threshold 128
	if got := out.At(0, 0); got != (Color{0, 255, 255}) {
		t.Errorf("pixel 0 = %v, want {0 255 255}", got)
	}
	if got := out.At(1, 0); got != (Color{0, 255, 0}) {
		t.Errorf("pixel 1 = %v, want {0 255 0}", got)
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		name string
		tint Color
		in   Color
		want Color
	}{
		{"white is identity", Color{255, 255, 255}, Color{10, 128, 255}, Color{10, 128, 255}},
		{"black keeps a fifth", Color{0, 0, 0}, Color{100, 200, 255}, Color{20, 40, 51}},
		{"per channel", Color{255, 0, 0}, Color{100, 100, 100}, Color{100, 20, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Tint(filled(t, 1, 1, 4, tt.in, 10), tt.tint)
			if got := out.At(0, 0); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if out.Alpha(0) != 10 {
				t.Errorf("alpha changed to %d", out.Alpha(0))
			}
		})
	}
}

func TestClampRound(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-5, 0},
		{0.49, 0},
		{0.5, 1},
		{127.5, 128},
		{254.6, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := ClampRound(tt.in); got != tt.want {
			t.Errorf("ClampRound(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
