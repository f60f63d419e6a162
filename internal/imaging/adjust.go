package imaging

import (
	"image/color"

	"github.com/disintegration/imaging"
)

// Modulate scales saturation and brightness of every pixel.
//
// Saturation blends each pixel toward (factor < 1) or away from (factor > 1)
// its own luminance with factor 1+saturation; brightness then scales the
// result, and with it the luminance, by 1+brightness. A zero delta leaves
// that property unchanged. Alpha is preserved.
func Modulate(b *Buffer, brightness, saturation float64) *Buffer {
	s := 1 + saturation
	k := 1 + brightness
	return b.adjust(func(c color.NRGBA) color.NRGBA {
		lum := Color{R: c.R, G: c.G, B: c.B}.Luminance()
		c.R = ClampRound((lum + (float64(c.R)-lum)*s) * k)
		c.G = ClampRound((lum + (float64(c.G)-lum)*s) * k)
		c.B = ClampRound((lum + (float64(c.B)-lum)*s) * k)
		return c
	})
}

// Contrast applies the linear transform out = in * (1 + delta*0.5) to the
// color channels. The halved slope keeps user-facing contrast deltas gentle.
func Contrast(b *Buffer, delta float64) *Buffer {
	f := 1 + delta*0.5
	return b.adjust(func(c color.NRGBA) color.NRGBA {
		c.R = ClampRound(float64(c.R) * f)
		c.G = ClampRound(float64(c.G) * f)
		c.B = ClampRound(float64(c.B) * f)
		return c
	})
}

// EdgeEnhance sharpens edges with a 3x3 kernel whose center is 1+8*amount
// and whose eight neighbours are -amount. The kernel sums to 1, so flat areas
// are unchanged. Borders replicate the nearest edge pixel and output channels
// are clamped to [0,255].
//
// A non-positive amount returns b untouched; the stage is skipped, not run as
// an identity convolution.
func EdgeEnhance(b *Buffer, amount float64) *Buffer {
	if amount <= 0 {
		return b
	}
	n := -amount
	kernel := [9]float64{
		n, n, n,
		n, 1 + 8*amount, n,
		n, n, n,
	}
	out := fromNRGBA(imaging.Convolve3x3(b.ToNRGBA(), kernel, nil))
	return out.matchChannels(b.Channels)
}

// Posterize applies a single hard cutoff per channel: values at or above
// level*16 become 255, everything else 0. A non-positive level returns b
// untouched.
func Posterize(b *Buffer, level int) *Buffer {
	if level <= 0 {
		return b
	}
	threshold := level * 16
	cut := func(v uint8) uint8 {
		if int(v) >= threshold {
			return 255
		}
		return 0
	}
	return b.adjust(func(c color.NRGBA) color.NRGBA {
		c.R, c.G, c.B = cut(c.R), cut(c.G), cut(c.B)
		return c
	})
}

// Tint multiplies each channel by tint*0.8+0.2, where tint is the matching
// channel of t on a 0-1 scale. It is a diagonal color matrix: there is no
// mixing between channels.
func Tint(b *Buffer, t Color) *Buffer {
	fr := float64(t.R)/255*0.8 + 0.2
	fg := float64(t.G)/255*0.8 + 0.2
	fb := float64(t.B)/255*0.8 + 0.2
	return b.adjust(func(c color.NRGBA) color.NRGBA {
		c.R = ClampRound(float64(c.R) * fr)
		c.G = ClampRound(float64(c.G) * fg)
		c.B = ClampRound(float64(c.B) * fb)
		return c
	})
}

// ClampRound rounds v to the nearest integer and clamps it to [0,255].
func ClampRound(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// adjust runs fn over every pixel and returns a new buffer with the same
// channel count as b.
func (b *Buffer) adjust(fn func(color.NRGBA) color.NRGBA) *Buffer {
	out := fromNRGBA(imaging.AdjustFunc(b.ToNRGBA(), fn))
	return out.matchChannels(b.Channels)
}
