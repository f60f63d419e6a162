package palette

import (
	"sort"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// Derive builds a palette of at most colors entries from image content.
//
// # Algorithm
//
//  1. Grid: the image is split into gridSize x gridSize cells, with
//     gridSize = clamp(floor(width/20), 8, 24) and cell sides
//     ceil(dimension/gridSize).
//  2. Averaging: every cell holding at least one pixel contributes its
//     rounded average color. Cells are visited row by row.
//  3. Deduplication: exact duplicates are removed, keeping first occurrence.
//  4. Resampling: if more candidates remain than requested, they are sorted
//     by luminance and colors entries are taken at indices
//     floor(i*len/colors). This keeps the spread from dark to light instead
//     of an arbitrary subset, and is fully deterministic.
//
// A non-positive colors is treated as 1. The result is empty only for an
// image without pixels.
func Derive(b *imaging.Buffer, colors int) imaging.Palette {
	if colors < 1 {
		colors = 1
	}
	if b.Len() == 0 {
		return nil
	}

	gridSize := min(max(b.Width/20, 8), 24)
	cellW := ceilDiv(b.Width, gridSize)
	cellH := ceilDiv(b.Height, gridSize)

	seen := make(map[imaging.Color]bool)
	candidates := make(imaging.Palette, 0, gridSize*gridSize)
	for gy := 0; gy < gridSize; gy++ {
		y0 := gy * cellH
		if y0 >= b.Height {
			break
		}
		y1 := min(y0+cellH, b.Height)
		for gx := 0; gx < gridSize; gx++ {
			x0 := gx * cellW
			if x0 >= b.Width {
				break
			}
			x1 := min(x0+cellW, b.Width)

			avg := cellAverage(b, x0, y0, x1, y1)
			if !seen[avg] {
				seen[avg] = true
				candidates = append(candidates, avg)
			}
		}
	}

	if len(candidates) <= colors {
		return candidates
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Luminance() < candidates[j].Luminance()
	})
	out := make(imaging.Palette, colors)
	for i := range out {
		out[i] = candidates[i*len(candidates)/colors]
	}
	return out
}

// cellAverage returns the rounded mean color of the half-open rectangle
// [x0,x1) x [y0,y1). The rectangle must be non-empty.
func cellAverage(b *imaging.Buffer, x0, y0, x1, y1 int) imaging.Color {
	var sr, sg, sb, n int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := b.RGB(y*b.Width + x)
			sr += int(c.R)
			sg += int(c.G)
			sb += int(c.B)
			n++
		}
	}
	return imaging.Color{
		R: uint8((sr + n/2) / n),
		G: uint8((sg + n/2) / n),
		B: uint8((sb + n/2) / n),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
