package palette

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/soniakeys/quant/median"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

// maxStandardColors is the largest palette an image.Paletted can index.
const maxStandardColors = 256

// StandardQuantizer reduces an image to a palette of its own choosing.
//
// It is used when the caller supplies no palette and color blocking is off.
// Implementations may pick any reduction algorithm; the pipeline relies only
// on the result having the input's dimensions, channel count and alpha.
type StandardQuantizer interface {
	Quantize(b *imaging.Buffer, colors int, ditherOn bool) (*imaging.Buffer, error)
}

// MedianCut is the default StandardQuantizer: median-cut palette selection
// followed by nearest-color mapping, or Floyd-Steinberg dithering when
// requested.
type MedianCut struct{}

// Quantize implements StandardQuantizer. colors is clamped to [1,256].
//
// The palette is chosen from the opaque color content only; the source alpha
// is copied back onto the result unchanged.
func (MedianCut) Quantize(b *imaging.Buffer, colors int, ditherOn bool) (*imaging.Buffer, error) {
	colors = min(max(colors, 1), maxStandardColors)

	img := opaque(b)
	var pal color.Palette
	if colors == 1 {
		// median.Quantizer needs room for a second cluster before it can
		// stop splitting; a single cluster is just the mean color.
		pal = color.Palette{meanColor(img)}
	} else {
		pal = median.Quantizer(colors).Paletted(img).Palette
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("failed to quantize: median cut produced no colors")
	}

	var mapped image.Image
	// A one-color palette leaves nothing to diffuse between, and the
	// ditherer rejects it.
	if ditherOn && len(pal) > 1 {
		d := dither.NewDitherer(pal)
		if d == nil {
			return nil, fmt.Errorf("failed to quantize: invalid dither palette of %d colors", len(pal))
		}
		d.Matrix = dither.FloydSteinberg
		mapped = d.DitherCopy(img)
	} else {
		p := image.NewPaletted(img.Bounds(), pal)
		draw.Draw(p, p.Rect, img, image.Point{}, draw.Src)
		mapped = p
	}

	res := imaging.FromImage(mapped)
	out := b.Clone()
	for i, n := 0, out.Len(); i < n; i++ {
		out.SetRGB(i, res.RGB(i))
	}
	return out, nil
}

// opaque returns b as an NRGBA image with every alpha forced to 255.
func opaque(b *imaging.Buffer) *image.NRGBA {
	img := b.ToNRGBA()
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// meanColor returns the rounded average color of img.
func meanColor(img *image.NRGBA) color.NRGBA {
	var r, g, b, n int
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r += int(img.Pix[i])
		g += int(img.Pix[i+1])
		b += int(img.Pix[i+2])
		n++
	}
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{
		R: uint8((r + n/2) / n),
		G: uint8((g + n/2) / n),
		B: uint8((b + n/2) / n),
		A: 255,
	}
}
