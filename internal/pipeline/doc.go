// Package pipeline turns a photograph into stylized pixel art.
//
// The single entry point is Renderer.Stylize (or the Stylize convenience
// function), a synchronous, CPU-bound and deterministic function of its
// source buffer and Params. It does no I/O; decoding and encoding happen at
// the boundary in package imaging.
//
// # Usage
//
//	src, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    return err
//	}
//	p := pipeline.DefaultParams()
//	p.Height = pipeline.AspectHeight(p.Width, src.Width, src.Height)
//	out, err := pipeline.Stylize(src, p)
//
// # Error Handling
//
// Invalid parameters are rejected before any pixel is touched, with errors
// wrapping ErrInvalidDimensions, ErrInvalidParams or ErrEmptyPalette. A
// custom palette string with malformed tokens is never an error by itself:
// bad tokens are dropped, and an empty result falls back to a derived
// palette unless Params.RequireCustomPalette is set.
//
// # Timeouts
//
// StylizeContext bounds a run with a context. The computation itself is not
// interruptible; only the wait is.
package pipeline
