package imaging

import "fmt"

// Resize performs a nearest-neighbor resize to exactly width x height.
//
// Destination pixel (x, y) copies source pixel
// (floor(x*srcW/width), floor(y*srcH/height)). The aspect ratio is not
// preserved; callers pick a height that matches the source if they want it.
// Integer arithmetic keeps the mapping exact, so a resize to the source's own
// dimensions is the identity.
func Resize(b *Buffer, width, height int) (*Buffer, error) {
	out, err := NewBuffer(width, height, b.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to resize: %w", err)
	}
	if width == b.Width && height == b.Height {
		copy(out.Pix, b.Pix)
		return out, nil
	}

	ch := b.Channels
	for y := 0; y < height; y++ {
		sy := y * b.Height / height
		for x := 0; x < width; x++ {
			sx := x * b.Width / width
			src := (sy*b.Width + sx) * ch
			dst := (y*width + x) * ch
			copy(out.Pix[dst:dst+ch], b.Pix[src:src+ch])
		}
	}
	return out, nil
}

// Upscale magnifies b by factor with nearest-neighbor sampling.
//
// The output is floor(Width*factor) x floor(Height*factor). Destination pixel
// (x, y) samples (floor(x/scaleX), floor(y/scaleY)) where scaleX and scaleY
// are the realised per-axis ratios, so non-integer factors are supported.
func Upscale(b *Buffer, factor float64) (*Buffer, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("failed to upscale: factor must be positive, got %g", factor)
	}
	width := int(float64(b.Width) * factor)
	height := int(float64(b.Height) * factor)
	out, err := NewBuffer(width, height, b.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to upscale: %w", err)
	}

	scaleX := float64(width) / float64(b.Width)
	scaleY := float64(height) / float64(b.Height)
	ch := b.Channels
	for y := 0; y < height; y++ {
		sy := min(int(float64(y)/scaleY), b.Height-1)
		for x := 0; x < width; x++ {
			sx := min(int(float64(x)/scaleX), b.Width-1)
			src := (sy*b.Width + sx) * ch
			dst := (y*width + x) * ch
			copy(out.Pix[dst:dst+ch], b.Pix[src:src+ch])
		}
	}
	return out, nil
}
