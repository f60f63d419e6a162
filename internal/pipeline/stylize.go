package pipeline

import (
	"context"
	"fmt"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
	"github.com/ironsheep/pixelart-mcp/internal/palette"
	"github.com/ironsheep/pixelart-mcp/internal/regions"
)

// Palette sources reported in Result.PaletteSource.
const (
	SourceCustom   = "custom"   // caller-supplied palette
	SourceDerived  = "derived"  // grid-sampled from the image
	SourceStandard = "standard" // chosen by the StandardQuantizer
)

// Result is the output of one stylize run.
type Result struct {
	// Image is the final, upscaled buffer. It has the source's channel count.
	Image *imaging.Buffer

	// Palette is the palette the image was mapped onto; nil when only the
	// standard quantizer ran.
	Palette imaging.Palette

	// PaletteSource is one of SourceCustom, SourceDerived, SourceStandard.
	PaletteSource string

	// DroppedTokens lists custom palette tokens that failed to parse.
	DroppedTokens []string

	// RegionsMerged counts regions reassigned by cleanup.
	RegionsMerged int
}

// Renderer runs the pipeline with a configurable standard quantizer.
// A Renderer holds no per-run state and is safe for concurrent use as long
// as its StandardQuantizer is.
type Renderer struct {
	Standard palette.StandardQuantizer

	// slots, when non-nil, caps the runs StylizeContext has in flight,
	// counting runs whose callers already gave up waiting.
	slots chan struct{}
}

// NewRenderer returns a Renderer using median-cut standard quantization.
func NewRenderer() *Renderer {
	return &Renderer{Standard: palette.MedianCut{}}
}

// NewLimitedRenderer is NewRenderer with at most n concurrent StylizeContext
// runs. n below 1 is treated as 1.
func NewLimitedRenderer(n int) *Renderer {
	r := NewRenderer()
	r.slots = make(chan struct{}, max(n, 1))
	return r
}

// Stylize runs the default Renderer and returns only the image.
func Stylize(src *imaging.Buffer, p Params) (*imaging.Buffer, error) {
	res, err := NewRenderer().Stylize(src, p)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Stylize converts src into pixel art. src is never modified.
//
// # Stages
//
//  1. Preprocess: modulate, contrast, nearest-neighbor downscale to
//     Width x Height, edge enhance, posterize (each skipped when disabled).
//  2. Quantize: onto the custom palette if one parsed, otherwise onto a
//     palette derived from the image when a palette string was given or
//     blocking is on, otherwise through the StandardQuantizer.
//  3. Tint, if set.
//  4. Color blocking, if enabled: BlockColors with the custom palette or one
//     derived again from the quantized and tinted image, then CleanRegions
//     and Smooth.
//  5. Upscale by ScaleUp.
//
// # Errors
//
//   - ErrInvalidDimensions: source or target size not positive
//   - ErrInvalidParams: other invalid values, see Params.Validate, or a
//     custom palette with more than 256 colors
//   - ErrEmptyPalette: RequireCustomPalette set and no token parsed
//
// All validation happens before any pixel work; no partial output is
// returned.
func (r *Renderer) Stylize(src *imaging.Buffer, p Params) (*Result, error) {
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		w, h := 0, 0
		if src != nil {
			w, h = src.Width, src.Height
		}
		return nil, fmt.Errorf("%w: source image %dx%d", ErrInvalidDimensions, w, h)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	custom, dropped := palette.Parse(p.CustomPalette)
	if p.RequireCustomPalette && len(custom) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPalette, p.CustomPalette)
	}
	if len(custom) > maxPaletteColors {
		return nil, fmt.Errorf("%w: custom palette has %d colors, limit %d", ErrInvalidParams, len(custom), maxPaletteColors)
	}
	if err := p.checkBlocking(len(custom)); err != nil {
		return nil, err
	}

	res := &Result{DroppedTokens: dropped}

	img, err := preprocess(src, p)
	if err != nil {
		return nil, err
	}

	switch {
	case len(custom) > 0:
		palette.Quantize(img, custom, p.Dither)
		res.Palette, res.PaletteSource = custom, SourceCustom
	case p.CustomPalette != "" || p.ColorBlocking:
		derived := palette.Derive(img, p.Colors)
		palette.Quantize(img, derived, p.Dither)
		res.Palette, res.PaletteSource = derived, SourceDerived
	default:
		if img, err = r.Standard.Quantize(img, p.Colors, p.Dither); err != nil {
			return nil, err
		}
		res.PaletteSource = SourceStandard
	}

	if p.Tint != nil {
		img = imaging.Tint(img, *p.Tint)
	}

	if p.ColorBlocking {
		pal := custom
		if len(pal) == 0 {
			pal = palette.Derive(img, p.Colors)
			res.PaletteSource = SourceDerived
		}
		res.Palette = pal
		regions.BlockColors(img, pal, p.SimilarityThreshold)
		res.RegionsMerged = regions.CleanRegions(img, p.MinRegionSize)
		regions.Smooth(img, p.SmoothingIterations)
	}

	if res.Image, err = imaging.Upscale(img, p.ScaleUp); err != nil {
		return nil, err
	}
	return res, nil
}

// StylizeContext runs Stylize and returns early with ctx.Err() if ctx is
// done first.
//
// The pipeline has no internal cancellation points: an abandoned run keeps
// computing in the background until it finishes and its result is dropped.
// On a Renderer from NewLimitedRenderer such a run still holds its slot, so
// later calls wait for it (or for their own ctx) before starting.
func (r *Renderer) StylizeContext(ctx context.Context, src *imaging.Buffer, p Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.slots != nil {
		select {
		case r.slots <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		if r.slots != nil {
			defer func() { <-r.slots }()
		}
		res, err := r.Stylize(src, p)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// preprocess applies the tonal and geometric preparation in fixed order. The
// returned buffer is always a fresh copy owned by the caller.
func preprocess(src *imaging.Buffer, p Params) (*imaging.Buffer, error) {
	img := src
	if p.Brightness != 0 || p.Saturation != 0 {
		img = imaging.Modulate(img, p.Brightness, p.Saturation)
	}
	if p.Contrast != 0 {
		img = imaging.Contrast(img, p.Contrast)
	}
	img, err := imaging.Resize(img, p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	img = imaging.EdgeEnhance(img, p.EdgeEnhance)
	img = imaging.Posterize(img, p.Posterize)
	return img, nil
}
