// Package imaging provides the pixel buffer and per-pixel operations of the
// pixel-art pipeline.
//
// All operations work on Buffer, a flat row-major byte array with 3 or 4
// channels. Coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward; pixel index i addresses (i%Width,
// i/Width).
//
// # Preprocessing
//
// Modulate, Contrast, Resize, EdgeEnhance and Posterize implement the tonal
// and geometric preparation that precedes quantization. Each returns a
// buffer and never modifies its input. Tint and Upscale run after
// quantization.
//
// # Color Representation
//
// Color holds 8-bit RGB components; alpha travels with the buffer and is
// never touched by color operations. Hex strings use the strict "#RRGGBB"
// form.
//
// # Arithmetic
//
// Per-pixel arithmetic clamps to [0,255] and rounds half up. Nothing in this
// package returns an error for overflow or underflow.
//
// # Codec Boundary
//
// Decode, EncodePNG, Save and ImageCache convert between encoded files and
// buffers using github.com/disintegration/imaging. Decode errors wrap
// ErrDecode.
package imaging
