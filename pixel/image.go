package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/lcd/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)

	// Bit returns the raw state of the pixel at (x, y), false if out of bounds.
	Bit(x, y int) bool

	// SetBit changes the raw state of the pixel at (x, y) and reports if it changed.
	SetBit(x, y int, on bool) bool
}

// Buffer holds the pixel values and is a container that is used by the image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels or pages.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func (p *Buffer) fill(on bool) {
	var value byte
	if on {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// MonoImage is a 1-bit per pixel monochrome image with horizontally packed bytes.
type MonoImage struct {
	Buffer
}

func NewMonoImage(w, h int) *MonoImage {
	stride := ((w + 7) & ^7) / 8 // round up to whole bytes
	return &MonoImage{
		Buffer: makeBuffer(w, h, stride, stride*h),
	}
}

func (p *MonoImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoImage) PixOffset(x, y int) int {
	return y*p.Stride + x/8
}

func (p *MonoImage) Bit(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return false
	}
	return p.Pix[p.PixOffset(x, y)]&(1<<uint(x%8)) != 0
}

func (p *MonoImage) SetBit(x, y int, on bool) bool {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return false
	}
	var (
		i   = p.PixOffset(x, y)
		bit = byte(1) << uint(x%8)
		old = p.Pix[i]
	)
	if on {
		p.Pix[i] |= bit
	} else {
		p.Pix[i] &^= bit
	}
	return p.Pix[i] != old
}

func (p *MonoImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.Bit(x, y)}
}

func (p *MonoImage) Set(x, y int, c color.Color) {
	p.SetBit(x, y, IsOn(c))
}

func (p *MonoImage) Fill(c color.Color) {
	p.fill(IsOn(c))
}

// MonoVerticalLSBImage is a 1-bit per pixel monochrome image.
//
// Every byte holds a vertical strip of 8 pixels with the top pixel in the least
// significant bit, rows are grouped in pages of 8. This is the native memory
// layout of page addressed controllers such as the ST7567, SH1106 and SSD1306.
type MonoVerticalLSBImage struct {
	Buffer
}

func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	pages := ((h + 7) & ^7) / 8 // round up to whole bytes
	return &MonoVerticalLSBImage{
		Buffer: makeBuffer(w, h, w, pages*w),
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

// PixOffset is the index of the byte holding the pixel at (x, y).
func (p *MonoVerticalLSBImage) PixOffset(x, y int) int {
	return y/8*p.Stride + x
}

func (p *MonoVerticalLSBImage) Bit(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return false
	}
	return p.Pix[p.PixOffset(x, y)]&(1<<uint(y&7)) != 0
}

func (p *MonoVerticalLSBImage) SetBit(x, y int, on bool) bool {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return false
	}
	var (
		i   = p.PixOffset(x, y)
		bit = byte(1) << uint(y&7)
		old = p.Pix[i]
	)
	if on {
		p.Pix[i] |= bit
	} else {
		p.Pix[i] &^= bit
	}
	return p.Pix[i] != old
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.Bit(x, y)}
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	p.SetBit(x, y, IsOn(c))
}

func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	p.fill(IsOn(c))
}

// Interface checks.
var (
	_ Image = (*MonoImage)(nil)
	_ Image = (*MonoVerticalLSBImage)(nil)
)
