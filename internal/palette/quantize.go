package palette

import (
	"math"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// Floyd-Steinberg weights for the four forward neighbours.
var floydSteinberg = [4]struct {
	dx, dy int
	w      float64
}{
	{1, 0, 7.0 / 16},  // right
	{-1, 1, 3.0 / 16}, // below-left
	{0, 1, 5.0 / 16},  // below
	{1, 1, 1.0 / 16},  // below-right
}

// Quantize maps every pixel of b onto pal, modifying b in place. Alpha is
// copied unchanged. An empty palette leaves b untouched.
//
// Each pixel takes the palette color at minimum Euclidean RGB distance; ties
// go to the lowest palette index.
//
// # Dithering
//
// With dither set, pixels are visited in row-major order and the residual
// (current value minus mapped color) is spread to the right (7/16),
// below-left (3/16), below (5/16) and below-right (1/16) neighbours. The
// residuals are kept at full precision in a working copy; each neighbour
// channel is clamped to [0,255] after accumulation. Error that would land
// outside the image is discarded. Because every pixel depends on errors from
// earlier pixels, the pass is strictly sequential.
func Quantize(b *imaging.Buffer, pal imaging.Palette, dither bool) {
	if len(pal) == 0 {
		return
	}
	if !dither {
		mapNearest(b, pal)
		return
	}

	w, h := b.Width, b.Height
	work := make([]float64, w*h*3)
	for i, n := 0, b.Len(); i < n; i++ {
		c := b.RGB(i)
		work[i*3], work[i*3+1], work[i*3+2] = float64(c.R), float64(c.G), float64(c.B)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := work[i*3 : i*3+3 : i*3+3]
			c := pal[nearestFloat(pal, v[0], v[1], v[2])]
			b.SetRGB(i, c)

			er := v[0] - float64(c.R)
			eg := v[1] - float64(c.G)
			eb := v[2] - float64(c.B)
			if er == 0 && eg == 0 && eb == 0 {
				continue
			}
			for _, fs := range floydSteinberg {
				nx, ny := x+fs.dx, y+fs.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				j := (ny*w + nx) * 3
				work[j] = clampChannel(work[j] + er*fs.w)
				work[j+1] = clampChannel(work[j+1] + eg*fs.w)
				work[j+2] = clampChannel(work[j+2] + eb*fs.w)
			}
		}
	}
}

// mapNearest replaces every pixel with its nearest palette color. Lookups are
// memoized by source color since quantized sources repeat heavily.
func mapNearest(b *imaging.Buffer, pal imaging.Palette) {
	memo := make(map[imaging.Color]imaging.Color)
	for i, n := 0, b.Len(); i < n; i++ {
		src := b.RGB(i)
		dst, ok := memo[src]
		if !ok {
			dst = pal[pal.Nearest(src)]
			memo[src] = dst
		}
		b.SetRGB(i, dst)
	}
}

// nearestFloat is Palette.Nearest for fractional channel values.
func nearestFloat(pal imaging.Palette, r, g, b float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range pal {
		dr := r - float64(c.R)
		dg := g - float64(c.G)
		db := b - float64(c.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func clampChannel(v float64) float64 {
	return math.Min(math.Max(v, 0), 255)
}
