package lcd

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	st7567DefaultWidth    = 128
	st7567DefaultHeight   = 64
	st7567DefaultContrast = 0x27
	st7567SystemReset     = 0xE2
	st7567SetBias9        = 0xA2
	st7567SetPowerControl = 0x28
	st7567SetBooster      = 0xF8
	st7567SetRegulation   = 0x20
	st7567SetIndicatorOff = 0xAC
)

type st7567 struct {
	monoDisplay
	width int
}

// ST7567 is a driver for the Sitronix ST7567 LCD controller, as used on 128x64
// graphics LCD modules.
func ST7567(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = st7567DefaultWidth
	}
	if config.Height == 0 {
		config.Height = st7567DefaultHeight
	}
	if config.Contrast == 0 {
		config.Contrast = st7567DefaultContrast
	}
	if err := checkSize("st7567", config, controllerColumns); err != nil {
		return nil, err
	}

	d := &st7567{width: config.Width}
	d.monoDisplay.init(conn, config)
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *st7567) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("ST7567 LCD %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *st7567) init(config *Config) (err error) {
	d.log.Info("init", zap.Stringer("display", d), zap.Stringer("rotation", config.Rotation))

	if err = d.hardwareReset(); err != nil {
		return
	}

	segment, com := d.scanDirection(config.Rotation)
	if err = d.command(
		st7567SystemReset,
		cmdSetDisplayOff,
		cmdSetStartLine|0x00,
		segment,
		com,
		cmdSetNormalDisplay,
		st7567SetBias9,
		st7567SetPowerControl|0x07, // booster, regulator and follower on
		st7567SetBooster, 0x00, // 4x
		st7567SetRegulation|0x03, // 1+Rb/Ra = 6.5
		cmdSetContrast, config.Contrast&0x3F,
		st7567SetIndicatorOff,
	); err != nil {
		return
	}

	// Sleep with all pixels on while the display memory is cleared.
	if err = d.command(cmdSetDisplayOff, cmdSetDisplayAllOn); err != nil {
		return
	}
	d.Clear()
	if err = d.Refresh(); err != nil {
		return
	}
	return d.command(cmdSetDisplayAllOff, cmdSetDisplayOn)
}

// scanDirection returns the segment and COM direction commands and updates the
// column offset of the flusher for the rotation.
func (d *st7567) scanDirection(rotation Rotation) (segment, com byte) {
	if rotation == Rotate180 {
		// Mirrored segments start at the end of the 132 column memory.
		d.flusher.ColumnOffset = controllerColumns - d.width
		return cmdSetSegmentRemap, cmdSetComScanInc
	}
	d.flusher.ColumnOffset = 0
	return cmdSetSegmentNormal, cmdSetComScanDec
}

// SetContrast sets the 6-bit electronic volume.
func (d *st7567) SetContrast(level uint8) error {
	return d.command(cmdSetContrast, level&0x3F)
}

func (d *st7567) SetRotation(rotation Rotation) error {
	if rotation != NoRotation && rotation != Rotate180 {
		return ErrRotation
	}
	offset := d.flusher.ColumnOffset
	d.scanDirection(rotation)
	if err := d.setRotation(rotation, cmdSetSegmentNormal, cmdSetComScanDec); err != nil {
		d.flusher.ColumnOffset = offset
		return err
	}
	return nil
}
