package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
)

var (
	// ErrInvalidDimensions is returned when a target or source dimension is
	// not positive.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidParams is returned for any other unusable parameter value.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrEmptyPalette is returned when a custom palette is mandatory but no
	// valid color could be parsed from it.
	ErrEmptyPalette = errors.New("custom palette has no valid colors")
)

const (
	// maxOutputPixels bounds the upscaled result (8192x8192).
	maxOutputPixels = 1 << 26

	// maxWorkingPixels bounds the downscaled working buffer (2048x2048).
	maxWorkingPixels = 1 << 22

	// maxPaletteColors bounds both Colors and a parsed custom palette.
	maxPaletteColors = 256

	// maxBlockingCells bounds palette size times working pixels, the number
	// of weight-field entries color blocking allocates.
	maxBlockingCells = 1 << 26
)

// Params configures one stylize run. It is a plain value: the pipeline
// never modifies it.
type Params struct {
	// Width and Height are the downscaled working resolution. Aspect ratio
	// is not preserved automatically; callers compute Height from the source.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Colors is the palette size for derived and standard palettes. Values
	// below 1 are treated as 1. A custom palette keeps all of its colors.
	Colors int `json:"colors"`

	// ScaleUp is the nearest-neighbor magnification applied at the end.
	// Non-integer factors are allowed.
	ScaleUp float64 `json:"scale_up"`

	// Brightness, Contrast and Saturation are deltas around 0; 0 disables
	// the adjustment.
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`

	// Dither enables Floyd-Steinberg error diffusion during quantization.
	Dither bool `json:"dither"`

	// Tint, when set, is applied after quantization.
	Tint *imaging.Color `json:"tint,omitempty"`

	// EdgeEnhance is the sharpening amount; 0 skips the stage.
	EdgeEnhance float64 `json:"edge_enhance"`

	// Posterize is the binary cutoff level (threshold Posterize*16); 0 skips
	// the stage.
	Posterize int `json:"posterize"`

	// ColorBlocking enables the spatial stages: blocking, region cleanup and
	// smoothing.
	ColorBlocking bool `json:"color_blocking"`

	// SimilarityThreshold (0-100) trades spatial weight for color accuracy
	// during blocking; higher values favour color.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// MinRegionSize is the smallest region kept by cleanup; 1 or less
	// disables cleanup.
	MinRegionSize int `json:"min_region_size"`

	// SmoothingIterations is the number of majority-vote passes.
	SmoothingIterations int `json:"smoothing_iterations"`

	// CustomPalette is a comma-separated "#RRGGBB" list. Malformed tokens
	// are dropped. If nothing valid remains the pipeline derives a palette
	// instead, unless RequireCustomPalette is set.
	CustomPalette        string `json:"custom_palette,omitempty"`
	RequireCustomPalette bool   `json:"require_custom_palette,omitempty"`
}

// DefaultParams returns the parameters used when a caller does not override
// anything: 64x64 working size, 16 colors, 8x scale-up, no tonal changes.
func DefaultParams() Params {
	return Params{
		Width:               64,
		Height:              64,
		Colors:              16,
		ScaleUp:             8,
		SimilarityThreshold: 50,
		MinRegionSize:       4,
		SmoothingIterations: 1,
	}
}

// Validate rejects parameters that cannot produce an image. It is called by
// Stylize before any pixel work starts.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: downscale size %dx%d must be positive", ErrInvalidDimensions, p.Width, p.Height)
	}
	if int64(p.Width)*int64(p.Height) > maxWorkingPixels {
		return fmt.Errorf("%w: downscale size %dx%d exceeds %d pixels", ErrInvalidParams, p.Width, p.Height, maxWorkingPixels)
	}
	if p.Colors > maxPaletteColors {
		return fmt.Errorf("%w: colors %d exceeds %d", ErrInvalidParams, p.Colors, maxPaletteColors)
	}
	if err := p.checkBlocking(max(p.Colors, 1)); err != nil {
		return err
	}
	if !(p.ScaleUp > 0) || math.IsInf(p.ScaleUp, 0) {
		return fmt.Errorf("%w: scale_up must be a positive number, got %g", ErrInvalidParams, p.ScaleUp)
	}
	outW := math.Floor(float64(p.Width) * p.ScaleUp)
	outH := math.Floor(float64(p.Height) * p.ScaleUp)
	if outW < 1 || outH < 1 {
		return fmt.Errorf("%w: scale_up %g shrinks %dx%d to nothing", ErrInvalidDimensions, p.ScaleUp, p.Width, p.Height)
	}
	if outW*outH > maxOutputPixels {
		return fmt.Errorf("%w: output %.0fx%.0f exceeds %d pixels", ErrInvalidParams, outW, outH, maxOutputPixels)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"brightness", p.Brightness},
		{"contrast", p.Contrast},
		{"saturation", p.Saturation},
		{"edge_enhance", p.EdgeEnhance},
		{"similarity_threshold", p.SimilarityThreshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParams, f.name)
		}
	}
	return nil
}

// checkBlocking rejects a color blocking run whose weight fields for a
// palette of n colors would exceed maxBlockingCells.
func (p Params) checkBlocking(n int) error {
	if !p.ColorBlocking {
		return nil
	}
	if int64(n)*int64(p.Width)*int64(p.Height) > maxBlockingCells {
		return fmt.Errorf("%w: color blocking %d colors at %dx%d exceeds %d weight cells",
			ErrInvalidParams, n, p.Width, p.Height, maxBlockingCells)
	}
	return nil
}

// AspectHeight returns the height that keeps srcW:srcH at the given width,
// rounded and at least 1.
func AspectHeight(width, srcW, srcH int) int {
	if srcW <= 0 {
		return max(width, 1)
	}
	return max(int(math.Round(float64(width)*float64(srcH)/float64(srcW))), 1)
}
