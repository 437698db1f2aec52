package framebuffer

import (
	"image"
	"image/color"
	"sync"

	"github.com/BeatGlow/lcd/pixel"
)

// Mono is a bilevel framebuffer stored in the page layout of the controller.
type Mono struct {
	mu    sync.Mutex
	img   *pixel.MonoVerticalLSBImage
	dirty Region
}

// NewMono returns a blank w×h framebuffer.
//
// The whole buffer starts out dirty, the first flush initializes the display memory.
func NewMono(w, h int) *Mono {
	m := &Mono{
		img: pixel.NewMonoVerticalLSBImage(w, h),
	}
	m.dirty = Region{EndCol: w, EndRow: h}
	return m
}

func (m *Mono) Bounds() image.Rectangle {
	return m.img.Rect
}

func (m *Mono) ColorModel() color.Model {
	return pixel.MonoModel
}

func (m *Mono) At(x, y int) color.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.img.At(x, y)
}

func (m *Mono) Set(x, y int, c color.Color) {
	m.SetPixel(x, y, pixel.IsOn(c))
}

// Pixel reports whether the pixel at (x, y) is lit; out of bounds pixels are off.
func (m *Mono) Pixel(x, y int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.img.Bit(x, y)
}

// SetPixel changes the pixel at (x, y), the dirty region only grows if the pixel changed.
func (m *Mono) SetPixel(x, y int, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.img.SetBit(x, y, on) {
		m.dirty.Grow(image.Rect(x, y, x+1, y+1))
	}
}

// Fill sets every pixel to c and marks the whole buffer dirty.
func (m *Mono) Fill(c color.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.img.Fill(c)
	m.dirty.Grow(m.img.Rect)
}

// Clear turns all pixels off and marks the whole buffer dirty.
func (m *Mono) Clear() {
	m.Fill(pixel.Off)
}

// Damage marks rect as dirty without changing any pixels.
func (m *Mono) Damage(rect image.Rectangle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty.Grow(rect.Intersect(m.img.Rect))
}

// Dirty returns a snapshot of the dirty region.
func (m *Mono) Dirty() Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// UpdateDirty calls fn with the dirty region while holding the framebuffer lock.
//
// fn must not call other methods of m.
func (m *Mono) UpdateDirty(fn func(*Region)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.dirty)
}

// Reset discards all pending damage.
func (m *Mono) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = EmptyRegion(m.img.Rect.Dx(), m.img.Rect.Dy())
}

// Pix returns a copy of the raw page-ordered pixel data.
func (m *Mono) Pix() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.img.Pix...)
}
