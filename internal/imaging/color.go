package imaging

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGB color with 8-bit components.
//
// Colors compare by exact value; two colors are the same palette entry only
// if all three components match.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseHex parses a color in strict "#RRGGBB" form.
//
// Short forms ("#RGB"), missing '#' and alpha suffixes are rejected.
func ParseHex(s string) (Color, error) {
	if !hexPattern.MatchString(s) {
		return Color{}, fmt.Errorf("invalid hex color %q: want #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#RRGGBB" (uppercase).
func (c Color) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Luminance returns the ITU-R BT.601 luma (0.299*R + 0.587*G + 0.114*B) on
// the 0-255 scale.
func (c Color) Luminance() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Distance returns the Euclidean distance between two colors in RGB space.
func (c Color) Distance(o Color) float64 {
	return math.Sqrt(float64(c.distanceSq(o)))
}

func (c Color) distanceSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Palette is an ordered list of target colors. Order matters: every nearest
// color search resolves ties to the lowest index.
type Palette []Color

// Nearest returns the index of the palette color closest to c, or -1 for an
// empty palette.
func (p Palette) Nearest(c Color) int {
	best, bestDist := -1, math.MaxInt
	for i, pc := range p {
		if d := c.distanceSq(pc); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// String formats the palette as comma-separated "#RRGGBB" tokens, the same
// form accepted by the palette parser.
func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.Hex()
	}
	return strings.Join(parts, ",")
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string  `json:"hex"`        // Hex color "#RRGGBB"
	Pixels     int     `json:"pixels"`     // Number of pixels with this color
	Percentage float64 `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        Color   `json:"rgb"`        // RGB components
}

// PaletteUsage counts the exact colors present in a buffer.
//
// Unlike a dominant-color analysis no bucketing is applied: a stylized image
// is expected to contain only palette colors, so every entry here is one
// palette color that survived the pipeline. Results are sorted by pixel count
// descending; equal counts keep first-seen (row-major) order.
func PaletteUsage(b *Buffer) []ColorFrequency {
	counts := make(map[Color]int)
	order := make([]Color, 0)
	n := b.Len()
	for i := 0; i < n; i++ {
		c := b.RGB(i)
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}

	colors := make([]ColorFrequency, 0, len(order))
	for _, c := range order {
		cnt := counts[c]
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Pixels:     cnt,
			Percentage: math.Round(float64(cnt)/float64(n)*10000) / 100,
			RGB:        c,
		})
	}

	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Pixels > colors[j].Pixels
	})
	return colors
}
