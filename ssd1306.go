package lcd

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	ssd1306DefaultWidth    = 128
	ssd1306DefaultHeight   = 64
	ssd1306DefaultContrast = 0xCF
)

type ssd1306 struct {
	monoDisplay
}

// SSD1306 is a driver for the Solomon Systech SSD1306 OLED display.
//
// The controller is used in page addressing mode, so it's flushed like every other
// page addressed controller.
func SSD1306(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ssd1306DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1306DefaultHeight
	}
	if config.Contrast == 0 {
		config.Contrast = ssd1306DefaultContrast
	}

	var (
		displayClockDiv byte
		comPins         byte
		colStart        int
	)
	switch {
	case config.Width == 64 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 64 && config.Height == 48:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 96 && config.Height == 16:
		displayClockDiv, comPins, colStart = 0x60, 0x02, 0
	case config.Width == 128 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x02, 0
	case config.Width == 128 && config.Height == 64:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 0
	default:
		return nil, errors.Wrapf(ErrBounds, "ssd1306: unsupported size %dx%d", config.Width, config.Height)
	}

	d := new(ssd1306)
	d.monoDisplay.init(conn, config)
	d.flusher.ColumnOffset = colStart
	if err := d.init(config, displayClockDiv, comPins); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ssd1306) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1306 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *ssd1306) init(config *Config, displayClockDiv, comPins byte) (err error) {
	d.log.Info("init", zap.Stringer("display", d), zap.Stringer("rotation", config.Rotation))

	if err = d.hardwareReset(); err != nil {
		return
	}
	if err = d.command(
		cmdSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, displayClockDiv,
		ssd1xxxSetMultiplexRatio, byte(config.Height-1),
		ssd1xxxSetDisplayOffset, 0x00,
		cmdSetStartLine|0x00,
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetMemoryMode, ssd1xxxPageAddressingMode,
		ssd1xxxSetComPins, comPins,
		cmdSetContrast, config.Contrast,
		ssd1xxxSetPrecharge, 0xF1,
		ssd1xxxSetVCOMDeselect, 0x40,
		cmdSetDisplayAllOff,
		cmdSetNormalDisplay,
	); err != nil {
		return
	}
	if err = d.SetRotation(config.Rotation); err != nil {
		return
	}

	d.Clear()
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

func (d *ssd1306) SetRotation(rotation Rotation) error {
	return d.setRotation(rotation, cmdSetSegmentRemap, cmdSetComScanDec)
}
