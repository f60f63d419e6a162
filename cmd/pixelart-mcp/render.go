package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/pixelart-mcp/internal/imaging"
	"github.com/ironsheep/pixelart-mcp/internal/pipeline"
)

// runRender implements the render subcommand: decode one file, stylize it and
// write the result.
func runRender(args []string, stderr io.Writer) error {
	def := pipeline.DefaultParams()
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "input image path (required)")
	out := fs.String("out", "", "output image path, format from extension (required)")
	width := fs.Int("width", def.Width, "working width in pixels")
	height := fs.Int("height", 0, "working height in pixels (0 keeps the aspect ratio)")
	colors := fs.Int("colors", def.Colors, "palette size")
	scale := fs.Float64("scale", def.ScaleUp, "nearest-neighbor upscale factor")
	brightness := fs.Float64("brightness", 0, "brightness delta")
	contrast := fs.Float64("contrast", 0, "contrast delta")
	saturation := fs.Float64("saturation", 0, "saturation delta")
	dither := fs.Bool("dither", false, "enable Floyd-Steinberg dithering")
	tint := fs.String("tint", "", "tint color as #RRGGBB")
	edge := fs.Float64("edge", 0, "edge enhance amount")
	posterize := fs.Int("posterize", 0, "posterize level (cutoff level*16)")
	blocking := fs.Bool("blocking", false, "enable color blocking")
	similarity := fs.Float64("similarity", def.SimilarityThreshold, "blocking similarity threshold 0-100")
	minRegion := fs.Int("min-region", def.MinRegionSize, "minimum region size kept by cleanup")
	smooth := fs.Int("smooth", def.SmoothingIterations, "smoothing iterations")
	pal := fs.String("palette", "", "comma-separated #RRGGBB palette")
	requirePal := fs.Bool("require-palette", false, "fail when -palette has no valid color")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		fs.Usage()
		return errors.New("-in and -out are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	src, err := imaging.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	p := pipeline.Params{
		Width:                *width,
		Height:               *height,
		Colors:               *colors,
		ScaleUp:              *scale,
		Brightness:           *brightness,
		Contrast:             *contrast,
		Saturation:           *saturation,
		Dither:               *dither,
		EdgeEnhance:          *edge,
		Posterize:            *posterize,
		ColorBlocking:        *blocking,
		SimilarityThreshold:  *similarity,
		MinRegionSize:        *minRegion,
		SmoothingIterations:  *smooth,
		CustomPalette:        *pal,
		RequireCustomPalette: *requirePal,
	}
	if p.Height == 0 {
		p.Height = pipeline.AspectHeight(p.Width, src.Width, src.Height)
	}
	if *tint != "" {
		c, err := imaging.ParseHex(*tint)
		if err != nil {
			return fmt.Errorf("invalid tint: %w", err)
		}
		p.Tint = &c
	}

	res, err := pipeline.NewRenderer().Stylize(src, p)
	if err != nil {
		return err
	}
	for _, tok := range res.DroppedTokens {
		fmt.Fprintf(stderr, "ignoring palette entry %q\n", tok)
	}
	return imaging.Save(res.Image, *out)
}
