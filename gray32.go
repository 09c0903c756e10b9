package netpbm

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Gray32Color is a 32-bit grayscale color. The usable range is the
// historical signed 31-bit one; values above that clamp on conversion.
type Gray32Color struct {
	Y uint32
}

func (c Gray32Color) RGBA() (r, g, b, a uint32) {
	y := c.Y >> 15
	if y > 0xffff {
		y = 0xffff
	}
	return y, y, y, 0xffff
}

// Gray32Model is the color model for Gray32 images.
var Gray32Model = color.ModelFunc(gray32Model)

func gray32Model(c color.Color) color.Color {
	if c, ok := c.(Gray32Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	// Same luminance weights as color.Gray16Model, widened to 31 bits.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	return Gray32Color{Y: y << 15}
}

// Gray32 is an in-memory image whose At method returns Gray32Color values.
type Gray32 struct {
	// Pix holds the image's pixels as big-endian 32-bit samples. The pixel
	// at (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*4].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent
	// pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewGray32 returns a new Gray32 image with the given bounds.
func NewGray32(r image.Rectangle) *Gray32 {
	return &Gray32{
		Pix:    make([]uint8, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
	}
}

func (p *Gray32) ColorModel() color.Model { return Gray32Model }

func (p *Gray32) Bounds() image.Rectangle { return p.Rect }

func (p *Gray32) At(x, y int) color.Color { return p.Gray32At(x, y) }

func (p *Gray32) Gray32At(x, y int) Gray32Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return Gray32Color{}
	}
	i := p.PixOffset(x, y)
	return Gray32Color{Y: binary.BigEndian.Uint32(p.Pix[i : i+4])}
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (p *Gray32) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *Gray32) Set(x, y int, c color.Color) {
	p.SetGray32(x, y, gray32Model(c).(Gray32Color))
}

func (p *Gray32) SetGray32(x, y int, c Gray32Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	binary.BigEndian.PutUint32(p.Pix[i:i+4], c.Y)
}

// Opaque scans the entire image and reports whether it is fully opaque,
// which it always is.
func (p *Gray32) Opaque() bool { return true }
