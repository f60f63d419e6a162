package regions

import (
	"math"
	"sync"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// Vote weights cast into the spatial weight fields.
const (
	centerVote   = 4
	neighborVote = 1
)

// BlockColors re-quantizes b onto pal with a bias toward spatial coherence,
// so that contiguous areas keep one flat color across ambiguous boundaries.
// b is modified in place; an empty palette leaves it untouched.
//
// # Algorithm
//
//  1. Cells: the image is divided into square cells of side
//     clamp(floor(sqrt(width*height)/20), 5, 20).
//  2. Voting: each pixel finds its nearest palette color and votes for it in
//     that color's weight field: 4 at the center pixel of its own cell and 1
//     at the centers of the 8 surrounding cells. Only cell centers
//     accumulate, which keeps the cost linear in pixel count. Centers of
//     partial edge cells are clamped into the image.
//  3. Smoothing: every field gets one center-weighted blur over interior
//     pixels, new = floor((4*center + up + down + left + right) / 8).
//     Fields are independent and are smoothed concurrently.
//  4. Scoring: only after every field is complete, each pixel picks the
//     palette color with the highest
//     (1-s)*(255-min(255,distance)) + s*weight,
//     where s = clamp(1 - similarityThreshold/100, 0.1, 0.7). Ties go to the
//     lowest index. Rows are scored concurrently and the color term is
//     memoized per source color.
//
// A single-color image maps onto itself when its color is in the palette.
func BlockColors(b *imaging.Buffer, pal imaging.Palette, similarityThreshold float64) {
	if len(pal) == 0 {
		return
	}
	w, h := b.Width, b.Height

	fields := accumulateVotes(b, pal)

	var wg sync.WaitGroup
	for ci := range fields {
		wg.Add(1)
		go func(ci int) {
			defer wg.Done()
			fields[ci] = smoothField(fields[ci], w, h)
		}(ci)
	}
	wg.Wait()

	spatial := math.Min(math.Max(1-similarityThreshold/100, 0.1), 0.7)
	parallelRows(0, h, func(y0, y1 int) {
		memo := make(map[imaging.Color][]float64)
		for i := y0 * w; i < y1*w; i++ {
			src := b.RGB(i)
			terms, ok := memo[src]
			if !ok {
				terms = colorTerms(src, pal, 1-spatial)
				memo[src] = terms
			}

			best, bestScore := 0, math.Inf(-1)
			for ci, term := range terms {
				if score := term + spatial*float64(fields[ci][i]); score > bestScore {
					best, bestScore = ci, score
				}
			}
			b.SetRGB(i, pal[best])
		}
	})
}

// accumulateVotes builds one zeroed weight field per palette color, sized
// width*height, and casts every pixel's votes into it.
func accumulateVotes(b *imaging.Buffer, pal imaging.Palette) [][]int32 {
	w, h := b.Width, b.Height
	cell := min(max(int(math.Sqrt(float64(w*h))/20), 5), 20)
	half := cell / 2

	fields := make([][]int32, len(pal))
	for ci := range fields {
		fields[ci] = make([]int32, w*h)
	}

	nearest := make(map[imaging.Color]int)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := b.RGB(y*w + x)
			ci, ok := nearest[src]
			if !ok {
				ci = pal.Nearest(src)
				nearest[src] = ci
			}
			field := fields[ci]

			cx, cy := x/cell, y/cell
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					gx, gy := cx+dx, cy+dy
					if gx < 0 || gy < 0 || gx*cell >= w || gy*cell >= h {
						continue
					}
					px := min(gx*cell+half, w-1)
					py := min(gy*cell+half, h-1)
					vote := int32(neighborVote)
					if dx == 0 && dy == 0 {
						vote = centerVote
					}
					field[py*w+px] += vote
				}
			}
		}
	}
	return fields
}

// smoothField applies one center-weighted box blur to the interior of a
// field and returns the result. Border values are copied unchanged.
func smoothField(field []int32, w, h int) []int32 {
	out := make([]int32, len(field))
	copy(out, field)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			out[i] = (4*field[i] + field[i-w] + field[i+w] + field[i-1] + field[i+1]) / 8
		}
	}
	return out
}

// colorTerms returns, per palette entry, the color-similarity part of the
// score: weight * (255 - min(255, distance)).
func colorTerms(src imaging.Color, pal imaging.Palette, weight float64) []float64 {
	terms := make([]float64, len(pal))
	for ci, c := range pal {
		terms[ci] = weight * (255 - math.Min(255, src.Distance(c)))
	}
	return terms
}
