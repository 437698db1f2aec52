package lcd

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	sh1106DefaultWidth    = 128
	sh1106DefaultHeight   = 64
	sh1106DefaultContrast = 0x7F
)

type sh1106 struct {
	monoDisplay
}

// SH1106 is a driver for the Sino Wealth SH1106 OLED display.
//
// The SH1106 has 132 columns of display memory, narrower panels are centered.
func SH1106(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = sh1106DefaultWidth
	}
	if config.Height == 0 {
		config.Height = sh1106DefaultHeight
	}
	if config.Contrast == 0 {
		config.Contrast = sh1106DefaultContrast
	}

	var comPins byte
	switch {
	case config.Width == 128 && config.Height == 32:
		comPins = 0x02
	case config.Width == 128 && config.Height == 64:
		comPins = 0x12
	default:
		return nil, errors.Wrapf(ErrBounds, "sh1106: unsupported size %dx%d", config.Width, config.Height)
	}

	d := new(sh1106)
	d.monoDisplay.init(conn, config)
	d.flusher.ColumnOffset = (controllerColumns - config.Width) / 2
	if err := d.init(config, comPins); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *sh1106) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SH1106 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *sh1106) init(config *Config, comPins byte) (err error) {
	d.log.Info("init", zap.Stringer("display", d), zap.Stringer("rotation", config.Rotation))

	if err = d.hardwareReset(); err != nil {
		return
	}
	if err = d.command(
		cmdSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, 0x80,
		ssd1xxxSetMultiplexRatio, byte(config.Height-1),
		ssd1xxxSetDisplayOffset, 0x00,
		cmdSetStartLine|0x00,
		ssd1xxxSetDCDC, 0x8B,
		ssd1xxxSetComPins, comPins,
		cmdSetContrast, config.Contrast,
		ssd1xxxSetPrecharge, 0x22,
		ssd1xxxSetVCOMDeselect, 0x35,
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

func (d *sh1106) SetRotation(rotation Rotation) error {
	return d.setRotation(rotation, cmdSetSegmentRemap, cmdSetComScanDec)
}
