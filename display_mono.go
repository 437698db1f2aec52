package lcd

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/lcd/framebuffer"
)

// Commands shared by the supported controllers.
const (
	cmdSetStartLine       = 0x40
	cmdSetContrast        = 0x81
	cmdSetSegmentNormal   = 0xA0
	cmdSetSegmentRemap    = 0xA1
	cmdSetDisplayAllOff   = 0xA4
	cmdSetDisplayAllOn    = 0xA5
	cmdSetNormalDisplay   = 0xA6
	cmdSetInvertDisplay   = 0xA7
	cmdSetDisplayOff      = 0xAE
	cmdSetDisplayOn       = 0xAF
	cmdSetComScanInc      = 0xC0
	cmdSetComScanDec      = 0xC8
	controllerColumns     = 132
	controllerMaxPageRows = 64
)

// monoDisplay is the controller independent part of a page addressed display.
type monoDisplay struct {
	c        Conn
	fb       *framebuffer.Mono
	flusher  *Flusher
	log      *zap.Logger
	rotation Rotation
	halted   bool
}

func (d *monoDisplay) init(c Conn, config *Config) {
	d.c = c
	d.log = config.logger()
	d.fb = framebuffer.NewMono(config.Width, config.Height)
	d.flusher = NewFlusher(c, d.fb, d.log)
	d.rotation = config.Rotation
}

func checkSize(name string, config *Config, maxWidth int) error {
	switch {
	case config.Width <= 0 || config.Width > maxWidth:
		return errors.Wrapf(ErrBounds, "%s: width %d", name, config.Width)
	case config.Height <= 0 || config.Height > controllerMaxPageRows || config.Height%TileHeight != 0:
		return errors.Wrapf(ErrBounds, "%s: height %d", name, config.Height)
	}
	return nil
}

func (d *monoDisplay) command(cmds ...byte) error {
	if d.halted {
		return ErrHalted
	}
	return commands(d.c, cmds...)
}

// hardwareReset pulses the reset line, it's a no-op if the bus has no reset pin.
func (d *monoDisplay) hardwareReset() error {
	if err := d.c.Reset(gpio.Low); err != nil {
		return errors.Wrap(err, "lcd: reset")
	}
	time.Sleep(time.Millisecond)
	if err := d.c.Reset(gpio.High); err != nil {
		return errors.Wrap(err, "lcd: reset")
	}
	time.Sleep(time.Millisecond)
	return nil
}

func (d *monoDisplay) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

func (d *monoDisplay) ColorModel() color.Model {
	return d.fb.ColorModel()
}

func (d *monoDisplay) At(x, y int) color.Color {
	return d.fb.At(x, y)
}

func (d *monoDisplay) Set(x, y int, c color.Color) {
	d.fb.Set(x, y, c)
}

func (d *monoDisplay) Clear() {
	d.fb.Clear()
}

func (d *monoDisplay) Framebuffer() *framebuffer.Mono {
	return d.fb
}

func (d *monoDisplay) FlushSome() (bool, error) {
	if d.halted {
		return false, ErrHalted
	}
	return d.flusher.FlushSome()
}

func (d *monoDisplay) Refresh() error {
	if d.halted {
		return ErrHalted
	}
	return d.flusher.Flush(context.Background())
}

func (d *monoDisplay) Show(show bool) error {
	if show {
		return d.command(cmdSetDisplayOn)
	}
	return d.command(cmdSetDisplayOff)
}

func (d *monoDisplay) Invert(invert bool) error {
	if invert {
		return d.command(cmdSetInvertDisplay)
	}
	return d.command(cmdSetNormalDisplay)
}

func (d *monoDisplay) SetContrast(level uint8) error {
	return d.command(cmdSetContrast, level)
}

// setRotation mirrors segments and COM scan direction, normal is the rotation
// agnostic pair of commands for NoRotation.
func (d *monoDisplay) setRotation(rotation Rotation, segment, com byte) error {
	switch rotation {
	case NoRotation:
	case Rotate180:
		segment ^= cmdSetSegmentNormal ^ cmdSetSegmentRemap
		com ^= cmdSetComScanInc ^ cmdSetComScanDec
	default:
		return ErrRotation
	}
	if err := d.command(segment, com); err != nil {
		return err
	}
	d.rotation = rotation
	// The whole picture moves, resend everything.
	d.fb.Damage(d.fb.Bounds())
	d.flusher.Reset()
	return nil
}

func (d *monoDisplay) Close() error {
	if !d.halted {
		if err := d.Show(false); err != nil {
			_ = d.c.Close()
			return err
		}
		d.halted = true
	}
	return d.c.Close()
}
