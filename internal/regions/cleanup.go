package regions

import (
	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// Region is a maximal set of same-colored pixels connected through
// 4-adjacency (up, down, left, right).
type Region struct {
	// Color is the exact color shared by every pixel of the region.
	Color imaging.Color

	// Pixels holds pixel indices (y*width+x) in breadth-first discovery
	// order, starting with the region's first pixel in row-major order.
	Pixels []int
}

// FindRegions partitions an image, given as one color per pixel, into
// connected regions.
//
// Regions are returned in the row-major order of their first pixel. The
// search is an index-based breadth-first flood fill over a single arena:
// the queue of one fill is exactly the pixel list of its region, so no
// recursion or per-region allocation is needed and region Pixels slices
// share the arena's backing array.
func FindRegions(colors []imaging.Color, width, height int) []Region {
	n := width * height
	visited := make([]bool, n)
	arena := make([]int, 0, n)
	regions := make([]Region, 0)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		c := colors[start]
		head := len(arena)
		visited[start] = true
		arena = append(arena, start)

		for q := head; q < len(arena); q++ {
			nb, cnt := neighbors4(arena[q], width, height)
			for _, j := range nb[:cnt] {
				if !visited[j] && colors[j] == c {
					visited[j] = true
					arena = append(arena, j)
				}
			}
		}

		end := len(arena)
		regions = append(regions, Region{Color: c, Pixels: arena[head:end:end]})
	}

	return regions
}

// CleanRegions merges every region smaller than minSize into its dominant
// neighbouring color, modifying b in place. It returns how many regions were
// reassigned.
//
// # Algorithm
//
//  1. Snapshot: all colors are copied before any change, and regions are
//     found on the snapshot.
//  2. Tally: for each undersized region, the 4-neighbours of its pixels are
//     read from the snapshot and every neighbour color differing from the
//     region's own is counted.
//  3. Reassign: the whole region takes the color with the highest tally;
//     ties go to the color encountered first (pixels in discovery order,
//     neighbours up, down, left, right).
//
// Only step 3 writes to b, so merges within one pass never cascade: a region
// absorbed into a neighbour cannot change what a later region sees. Regions
// with no differently-colored neighbour (the whole image is one color) are
// left unchanged. A minSize of 1 or less disables the pass.
func CleanRegions(b *imaging.Buffer, minSize int) int {
	if minSize <= 1 {
		return 0
	}

	snapshot := b.Colors()
	merged := 0
	for _, r := range FindRegions(snapshot, b.Width, b.Height) {
		if len(r.Pixels) >= minSize {
			continue
		}
		c, ok := dominantNeighbor(snapshot, r, b.Width, b.Height)
		if !ok {
			continue
		}
		for _, p := range r.Pixels {
			b.SetRGB(p, c)
		}
		merged++
	}
	return merged
}

// dominantNeighbor returns the most frequent color bordering r.
func dominantNeighbor(colors []imaging.Color, r Region, width, height int) (imaging.Color, bool) {
	counts := make(map[imaging.Color]int)
	order := make([]imaging.Color, 0, 4)

	for _, p := range r.Pixels {
		nb, cnt := neighbors4(p, width, height)
		for _, j := range nb[:cnt] {
			c := colors[j]
			if c == r.Color {
				continue
			}
			if _, ok := counts[c]; !ok {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	if len(order) == 0 {
		return imaging.Color{}, false
	}
	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// neighbors4 returns the in-bounds 4-neighbours of pixel p in up, down,
// left, right order.
func neighbors4(p, width, height int) (nb [4]int, n int) {
	x, y := p%width, p/width
	if y > 0 {
		nb[n] = p - width
		n++
	}
	if y < height-1 {
		nb[n] = p + width
		n++
	}
	if x > 0 {
		nb[n] = p - 1
		n++
	}
	if x < width-1 {
		nb[n] = p + 1
		n++
	}
	return nb, n
}
