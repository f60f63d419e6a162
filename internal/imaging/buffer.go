package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidBuffer is returned when a buffer's geometry does not match its data.
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// Buffer is a flat, row-major pixel array with 3 (RGB) or 4 (RGBA) channels.
//
// The layout is identical to image.NRGBA without stride padding: the pixel at
// (x, y) starts at (y*Width+x)*Channels. Alpha, when present, is never
// premultiplied.
//
// A Buffer is owned by exactly one pipeline stage at a time. Stages either
// modify it in place or return a replacement; none keeps a reference after
// handing it on.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewBuffer allocates a zeroed buffer.
//
// Returns an error wrapping ErrInvalidBuffer if either dimension is not
// positive or channels is not 3 or 4.
func NewBuffer(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidBuffer, width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: channels must be 3 or 4, got %d", ErrInvalidBuffer, channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Validate checks that the buffer's data length matches its geometry.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Channels != 3 && b.Channels != 4 {
		return fmt.Errorf("%w: channels must be 3 or 4, got %d", ErrInvalidBuffer, b.Channels)
	}
	if want := b.Width * b.Height * b.Channels; b.Width < 0 || b.Height < 0 || len(b.Pix) != want {
		return fmt.Errorf("%w: %dx%dx%d needs %d bytes, have %d",
			ErrInvalidBuffer, b.Width, b.Height, b.Channels, want, len(b.Pix))
	}
	return nil
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Index converts (x, y) to a pixel index. It panics on out-of-range
// coordinates rather than silently reading a neighbouring row.
func (b *Buffer) Index(x, y int) int {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("imaging: pixel (%d,%d) outside %dx%d buffer", x, y, b.Width, b.Height))
	}
	return y*b.Width + x
}

// RGB returns the color of pixel index i.
func (b *Buffer) RGB(i int) Color {
	o := i * b.Channels
	p := b.Pix[o : o+3 : o+3]
	return Color{R: p[0], G: p[1], B: p[2]}
}

// SetRGB overwrites the color channels of pixel index i. Alpha is untouched.
func (b *Buffer) SetRGB(i int, c Color) {
	o := i * b.Channels
	p := b.Pix[o : o+3 : o+3]
	p[0], p[1], p[2] = c.R, c.G, c.B
}

// At returns the color at (x, y).
func (b *Buffer) At(x, y int) Color {
	return b.RGB(b.Index(x, y))
}

// Set writes the color at (x, y), leaving alpha unchanged.
func (b *Buffer) Set(x, y int, c Color) {
	b.SetRGB(b.Index(x, y), c)
}

// Alpha returns the alpha of pixel index i, 255 for 3-channel buffers.
func (b *Buffer) Alpha(i int) uint8 {
	if b.Channels < 4 {
		return 255
	}
	return b.Pix[i*4+3]
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// Colors returns a snapshot of every pixel's color in index order.
func (b *Buffer) Colors() []Color {
	out := make([]Color, b.Len())
	for i := range out {
		out[i] = b.RGB(i)
	}
	return out
}

// ToNRGBA copies the buffer into a new *image.NRGBA. Three-channel buffers
// are given opaque alpha.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	if b.Channels == 4 {
		copy(img.Pix, b.Pix)
		return img
	}
	for i, n := 0, b.Len(); i < n; i++ {
		copy(img.Pix[i*4:i*4+3], b.Pix[i*3:i*3+3])
		img.Pix[i*4+3] = 255
	}
	return img
}

// FromImage converts any image to a 4-channel buffer.
//
// The image is normalised through imaging.Clone, so the result is always
// non-premultiplied and anchored at (0,0) regardless of the source's bounds.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	return fromNRGBA(nrgba)
}

// fromNRGBA adopts the Pix slice of a tightly packed, zero-origin NRGBA.
func fromNRGBA(img *image.NRGBA) *Buffer {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := img.Pix
	if img.Stride != w*4 || img.Rect.Min != (image.Point{}) {
		pix = make([]uint8, w*h*4)
		for y := 0; y < h; y++ {
			row := img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y):]
			copy(pix[y*w*4:(y+1)*w*4], row[:w*4])
		}
	}
	return &Buffer{Width: w, Height: h, Channels: 4, Pix: pix}
}

// matchChannels drops the alpha channel of a 4-channel buffer when the
// caller started from a 3-channel one. Used after round-tripping through
// an image.NRGBA.
func (b *Buffer) matchChannels(channels int) *Buffer {
	if b.Channels == channels {
		return b
	}
	out := &Buffer{Width: b.Width, Height: b.Height, Channels: 3, Pix: make([]uint8, b.Len()*3)}
	for i, n := 0, b.Len(); i < n; i++ {
		copy(out.Pix[i*3:i*3+3], b.Pix[i*4:i*4+3])
	}
	return out
}
