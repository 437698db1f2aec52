package main

import (
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/pixel"
)

var (
	widthFlag     = flag.Int("width", 0, "display width (default: driver default)")
	heightFlag    = flag.Int("height", 0, "display height (default: driver default)")
	contrastFlag  = flag.Uint8("contrast", 0, "contrast level (default: driver default)")
	rotateFlag    = flag.String("rotate", "", "display rotation (0 or 180)")
	invertFlag    = flag.Bool("invert", false, "invert the display")
	i2cDeviceFlag = flag.Int("i2c-dev", lcd.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag   = flag.Uint8("i2c-addr", lcd.DefaultI2CConfig.Addr, "I²C device address")
	spiBusFlag    = flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag = flag.Int("spi-dev", 0, "SPI device")
	spiPortFlag   = flag.String("spi-port", "", "periph SPI port name (default: first available)")
	spiSpeedFlag  = flag.Uint32("spi-speed", lcd.DefaultSPIConfig.SpeedHz, "SPI clock in Hz")
	resetPinFlag  = flag.String("reset", "GPIO25", "reset GPIO pin")
	dcPinFlag     = flag.String("dc", "GPIO24", "data/command GPIO pin (A0)")
	csPinFlag     = flag.String("cs", "", "software chip select GPIO pin (default: hardware CE)")
	frameFlag     = flag.Duration("frame", 100*time.Millisecond, "animation frame interval")
	stepFlag      = flag.Duration("step", time.Millisecond, "interval between partial flushes")
	debugFlag     = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <spi|spi-port|i2c> <st7567|sh1106|ssd1306>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	var logger *zap.Logger
	if *debugFlag {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	var rotation lcd.Rotation
	switch *rotateFlag {
	case "", "no", "0":
		rotation = lcd.NoRotation
	case "180", "flip":
		rotation = lcd.Rotate180
	default:
		logger.Fatal("invalid rotation", zap.String("rotate", *rotateFlag))
	}

	if _, err := host.Init(); err != nil {
		logger.Fatal("host init failed", zap.Error(err))
	}

	conn, err := openBus(flag.Arg(0))
	if err != nil {
		logger.Fatal("open bus failed", zap.String("bus", flag.Arg(0)), zap.Error(err))
	}
	logger.Info("using connection", zap.Stringer("conn", conn))

	output, err := openDisplay(flag.Arg(1), conn, &lcd.Config{
		Width:    *widthFlag,
		Height:   *heightFlag,
		Rotation: rotation,
		Contrast: *contrastFlag,
		Logger:   logger.Named("lcd"),
	})
	if err != nil {
		_ = conn.Close()
		logger.Fatal("display init failed", zap.String("driver", flag.Arg(1)), zap.Error(err))
	}
	defer func() {
		if err := output.Close(); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}()
	logger.Info("using driver", zap.Stringer("display", output))

	if *invertFlag {
		if err = output.Invert(true); err != nil {
			logger.Fatal("invert failed", zap.Error(err))
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	var (
		frame  = time.NewTicker(*frameFlag)
		step   = time.NewTicker(*stepFlag)
		offset int
		pages  int
	)
	defer frame.Stop()
	defer step.Stop()

	logger.Info("hit control-c to stop")
	drawFrame(output, offset)
	for {
		select {
		case s := <-sig:
			logger.Info("stopping", zap.Stringer("signal", s))
			return
		case <-frame.C:
			offset++
			drawFrame(output, offset)
		case <-step.C:
			more, err := output.FlushSome()
			if err != nil {
				logger.Warn("flush failed", zap.Error(err))
				continue
			}
			pages++
			if !more {
				logger.Debug("frame flushed", zap.Int("calls", pages))
				pages = 0
			}
		}
	}
}

func openBus(name string) (lcd.Conn, error) {
	switch name {
	case "i2c":
		return lcd.OpenI2C(&lcd.I2CConfig{
			Device: *i2cDeviceFlag,
			Addr:   *i2cAddrFlag,
			Reset:  gpioreg.ByName(*resetPinFlag),
		})
	case "spi", "spi-port":
		config := lcd.DefaultSPIConfig
		config.Bus = *spiBusFlag
		config.Device = *spiDeviceFlag
		config.SpeedHz = *spiSpeedFlag
		config.Reset = gpioreg.ByName(*resetPinFlag)
		config.DC = gpioreg.ByName(*dcPinFlag)
		if *csPinFlag != "" {
			config.CS = gpioreg.ByName(*csPinFlag)
		}
		if name == "spi-port" {
			return lcd.OpenSPIPort(*spiPortFlag, &config)
		}
		return lcd.OpenSPI(&config)
	default:
		return nil, fmt.Errorf("unsupported bus type %q", name)
	}
}

func openDisplay(name string, conn lcd.Conn, config *lcd.Config) (lcd.Display, error) {
	switch driver := strings.ToLower(name); driver {
	case "st7567":
		return lcd.ST7567(conn, config)
	case "sh1106":
		return lcd.SH1106(conn, config)
	case "ssd1306":
		return lcd.SSD1306(conn, config)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// drawFrame draws a border, a label and a bouncing ball; only the pixels that
// change between frames end up in the dirty rectangle.
func drawFrame(output lcd.Display, offset int) {
	r := output.Bounds()

	draw.Rectangle(output, r, pixel.On)
	draw.RoundedRectangle(output, image.Rect(2, 2, r.Dx()-2, 17), 4, pixel.On)

	d := font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(pixel.On),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, 14),
	}
	d.DrawString(output.String())

	const radius = 4
	var (
		area = image.Rect(2+radius, 19+radius, r.Dx()-2-radius, r.Dy()-2-radius)
		prev = bounce(area, offset-1)
		next = bounce(area, offset)
	)
	if area.Empty() {
		return
	}
	draw.Circle(output, prev, radius, pixel.Off)
	draw.Circle(output, next, radius, pixel.On)
}

// bounce is the position of the ball in frame n.
func bounce(area image.Rectangle, n int) image.Point {
	return image.Pt(
		area.Min.X+pingPong(n*2, area.Dx()),
		area.Min.Y+pingPong(n, area.Dy()),
	)
}

func pingPong(n, size int) int {
	if size <= 0 {
		return 0
	}
	if n < 0 {
		n = -n
	}
	n %= 2 * size
	if n >= size {
		return 2*size - 1 - n
	}
	return n
}
