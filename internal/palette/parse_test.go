package palette

import (
	"reflect"
	"testing"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        imaging.Palette
		wantDropped []string
	}{
		{"empty", "", nil, nil},
		{"single", "#FF0000", imaging.Palette{{R: 255, G: 0, B: 0}}, nil},
		{"whitespace and case", " #ff0000 ,\t#00Ff00", imaging.Palette{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}}, nil},
		{"empty tokens skipped", "#000000,,#FFFFFF,", imaging.Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}, nil},
		{"bad tokens dropped", "#FF0000,red,#12345,#0000FF", imaging.Palette{{R: 255, G: 0, B: 0}, {R: 0, G: 0, B: 255}}, []string{"red", "#12345"}},
		{"duplicates kept", "#111111,#111111", imaging.Palette{{R: 17, G: 17, B: 17}, {R: 17, G: 17, B: 17}}, nil},
		{"nothing valid", "nope, #XYZXYZ", nil, []string{"nope", "#XYZXYZ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := Parse(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("palette = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(dropped, tt.wantDropped) {
				t.Errorf("dropped = %q, want %q", dropped, tt.wantDropped)
			}
		})
	}
}

func TestParse_StringRoundTrip(t *testing.T) {
	pal := imaging.Palette{{R: 1, G: 2, B: 3}, {R: 250, G: 128, B: 0}}
	got, dropped := Parse(pal.String())
	if len(dropped) != 0 || !reflect.DeepEqual(got, pal) {
		t.Errorf("Parse(String()) = %v, %v", got, dropped)
	}
}
