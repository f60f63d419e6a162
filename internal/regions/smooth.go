package regions

import (
	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// minSmoothingDistance is how far (Euclidean RGB) a majority color must be
// from a pixel before the smoother replaces it. Near-identical shades are
// left alone.
const minSmoothingDistance = 30

// Smooth runs iterations passes of majority-vote denoising over b in place.
//
// In each pass every interior pixel looks at its four neighbours in a
// snapshot taken at the start of the pass. If at least three of them share
// one color and that color is more than 30 away from the pixel, the pixel
// takes it. Border pixels are never modified. Each pass sees the full result
// of the previous one; within a pass rows are processed concurrently.
//
// Zero or negative iterations leave b byte-identical.
func Smooth(b *imaging.Buffer, iterations int) {
	w, h := b.Width, b.Height
	if iterations <= 0 || w < 3 || h < 3 {
		return
	}

	for it := 0; it < iterations; it++ {
		snapshot := b.Colors()
		parallelRows(1, h-1, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 1; x < w-1; x++ {
					i := y*w + x
					nb := [4]imaging.Color{snapshot[i-w], snapshot[i+w], snapshot[i-1], snapshot[i+1]}
					c, votes := majority(nb)
					if votes >= 3 && snapshot[i].Distance(c) > minSmoothingDistance {
						b.SetRGB(i, c)
					}
				}
			}
		})
	}
}

// majority returns the most common color of four and its count; ties go to
// the earliest.
func majority(nb [4]imaging.Color) (imaging.Color, int) {
	best, bestVotes := nb[0], 0
	for i, c := range nb {
		votes := 0
		for _, o := range nb[i:] {
			if o == c {
				votes++
			}
		}
		if votes > bestVotes {
			best, bestVotes = c, votes
		}
	}
	return best, bestVotes
}
