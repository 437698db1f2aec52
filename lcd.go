// Package lcd contains drivers for monochrome page-addressed LCD and OLED displays.
//
// Controllers such as the ST7567, SH1106 and SSD1306 organize their display memory
// in pages of 8 rows by up to 132 columns, each byte holding a vertical strip of 8
// pixels. The drivers in this package draw into an in-memory [framebuffer.Mono] and
// transmit only its dirty rectangle, one page-row per [Display.FlushSome] call, so a
// cooperative main loop is never blocked by a slow serial bus.
package lcd

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/framebuffer"
)

var debug bool

func init() {
	debug = os.Getenv("LCD_DEBUG") != ""
}

// Errors
var (
	ErrBounds   = errors.New("lcd: out of display bounds")
	ErrHalted   = errors.New("lcd: display is closed")
	ErrRotation = errors.New("lcd: unsupported rotation")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations, page addressed controllers can only mirror in hardware.
const (
	NoRotation Rotation = iota
	Rotate180
)

func (r Rotation) String() string {
	switch r {
	case NoRotation:
		return "0°"
	case Rotate180:
		return "180°"
	default:
		return "invalid"
	}
}

// Display is a monochrome page addressed display.
type Display interface {
	draw.Image

	String() string

	// Close the display driver, this turns the display off and closes the bus.
	Close() error

	// Clear the display buffer.
	Clear()

	// Framebuffer is the pixel buffer backing the display.
	Framebuffer() *framebuffer.Mono

	// FlushSome transmits one page-row of the dirty rectangle and reports whether
	// more remains to be sent.
	FlushSome() (bool, error)

	// Refresh transmits the whole dirty rectangle.
	Refresh() error

	// Show toggles the display on or off.
	Show(bool) error

	// Invert toggles inverted (white on black) display mode.
	Invert(bool) error

	// SetContrast adjusts the contrast level.
	SetContrast(level uint8) error

	// SetRotation adjusts the pixel rotation.
	SetRotation(Rotation) error
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation

	// Contrast level, zero selects the driver default.
	Contrast uint8

	// Logger for driver diagnostics, defaults to a no-op logger (or a development
	// logger if LCD_DEBUG is set).
	Logger *zap.Logger
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if debug {
		if l, err := zap.NewDevelopment(); err == nil {
			return l
		}
	}
	return zap.NewNop()
}
