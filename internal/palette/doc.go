// Package palette chooses target colors and maps images onto them.
//
// Palettes come from two places: Parse reads a caller-supplied list of
// "#RRGGBB" tokens, and Derive samples a grid of cell averages from the image
// itself. Quantize maps a buffer onto a palette, optionally with
// Floyd-Steinberg error diffusion.
//
// When no palette is involved at all, a StandardQuantizer picks one. MedianCut
// delegates to github.com/soniakeys/quant for palette selection and to
// github.com/makeworld-the-better-one/dither for dithering; callers can swap
// in any other implementation.
//
// # Determinism
//
// Every function here is a pure function of its inputs. Nearest-color ties
// resolve to the lowest palette index and derived palettes are resampled by
// index, never randomly, so identical input always yields identical output.
package palette
