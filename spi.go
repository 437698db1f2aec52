package lcd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	lcdconn "github.com/BeatGlow/lcd/conn"
)

// Conn errors.
var (
	ErrDCPin     = errors.New("lcd: data/command (DC) GPIO pin is invalid")
	ErrDataPhase = errors.New("lcd: command sent during data phase")
)

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Bus and Device select the spidev device, /dev/spidev<Bus>.<Device>.
	Bus    int
	Device int

	// Mode is the SPI mode (CPOL/CPHA).
	Mode uint8

	// SpeedHz is the SPI clock, must be one of ValidSPISpeeds.
	SpeedHz uint32

	// DataLow inverts the data/command line: low for data, high for commands.
	DataLow bool

	// BatchSize is the maximum number of bytes per bus transfer.
	BatchSize uint

	// Reset pin, optional.
	Reset gpio.PinOut

	// DC is the data/command (A0) pin.
	DC gpio.PinOut

	// CS is a chip select pin driven in software, optional. It is active low.
	CS gpio.PinOut

	// SelectDelay is observed around asserting and releasing chip select.
	SelectDelay time.Duration

	// CommandDelay is observed after addressing the display memory.
	CommandDelay time.Duration

	// DataDelay is observed after each data phase.
	DataDelay time.Duration
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:          0,
	Device:       0,
	Mode:         0,
	SpeedHz:      8_000_000,
	BatchSize:    4096,
	DC:           gpioreg.ByName("GPIO24"),
	SelectDelay:  time.Microsecond,
	CommandDelay: 64 * time.Microsecond,
	DataDelay:    4 * time.Microsecond,
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
}

func (config *SPIConfig) withDefaults() (*SPIConfig, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	} else {
		c := *config
		config = &c
	}

	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if !lo.Contains(ValidSPISpeeds, config.SpeedHz) {
		return nil, errors.Errorf("lcd: invalid SPI speed %dHz", config.SpeedHz)
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultSPIConfig.BatchSize
	}
	if config.SelectDelay == 0 {
		config.SelectDelay = DefaultSPIConfig.SelectDelay
	}
	if config.CommandDelay == 0 {
		config.CommandDelay = DefaultSPIConfig.CommandDelay
	}
	if config.DataDelay == 0 {
		config.DataDelay = DefaultSPIConfig.DataDelay
	}
	return config, nil
}

// OpenSPI opens a Linux spidev device.
func OpenSPI(config *SPIConfig) (Conn, error) {
	config, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	c, err := lcdconn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	if err = c.SetMode(lcdconn.SPIMode(config.Mode)); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "lcd: set SPI mode")
	}
	if err = c.SetMaxSpeed(int(config.SpeedHz)); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "lcd: set SPI speed")
	}

	return newSPIBus(c, c, config), nil
}

// OpenSPIPort opens a SPI port from the periph registry by name, use "" for the first
// available port. The periph host drivers must be initialized.
func OpenSPIPort(name string, config *SPIConfig) (Conn, error) {
	config, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	p, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "lcd: open SPI port")
	}
	c, err := p.Connect(physic.Frequency(config.SpeedHz)*physic.Hertz, spi.Mode(config.Mode), 8)
	if err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "lcd: connect SPI port")
	}

	return newSPIBus(txWriter{c}, p, config), nil
}

// NewSPI uses an already connected SPI connection, the caller keeps ownership of c.
func NewSPI(c conn.Conn, config *SPIConfig) (Conn, error) {
	config, err := config.withDefaults()
	if err != nil {
		return nil, err
	}
	return newSPIBus(txWriter{c}, nil, config), nil
}

// txWriter writes to a periph connection.
type txWriter struct {
	c conn.Conn
}

func (w txWriter) Write(p []byte) (int, error) {
	if err := w.c.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w txWriter) String() string {
	return w.c.String()
}

type spiBus struct {
	mu           sync.Mutex
	w            io.Writer
	closer       io.Closer
	reset        gpio.PinOut
	dc           gpio.PinOut
	dcLevel      gpio.Level
	dcValid      bool
	cs           gpio.PinOut
	dataLow      bool
	batchSize    int
	inData       bool
	buf          []byte
	selectDelay  time.Duration
	commandDelay time.Duration
	dataDelay    time.Duration
	sleep        func(time.Duration)
}

func newSPIBus(w io.Writer, closer io.Closer, config *SPIConfig) *spiBus {
	return &spiBus{
		w:            w,
		closer:       closer,
		reset:        config.Reset,
		dc:           config.DC,
		cs:           config.CS,
		dataLow:      config.DataLow,
		batchSize:    int(config.BatchSize),
		buf:          make([]byte, 0, config.BatchSize),
		selectDelay:  config.SelectDelay,
		commandDelay: config.CommandDelay,
		dataDelay:    config.DataDelay,
		sleep:        time.Sleep,
	}
}

func (c *spiBus) String() string {
	return fmt.Sprintf("SPI bus %s", c.w)
}

func (c *spiBus) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *spiBus) Reset(level gpio.Level) error {
	if c.reset == nil || c.reset == gpio.INVALID {
		return nil
	}
	return c.reset.Out(level)
}

func (c *spiBus) updateDC(data bool) error {
	level := gpio.Level(data != c.dataLow)
	if !c.dcValid || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return errors.Wrap(err, "lcd: set DC pin")
		}
		c.dcLevel = level
		c.dcValid = true
	}
	return nil
}

func (c *spiBus) updateCS(level gpio.Level) error {
	if c.cs == nil || c.cs == gpio.INVALID {
		return nil
	}
	if err := c.cs.Out(level); err != nil {
		return errors.Wrap(err, "lcd: set CS pin")
	}
	return nil
}

func (c *spiBus) Select() error {
	c.mu.Lock()
	c.sleep(c.selectDelay)
	if err := c.updateCS(gpio.Low); err != nil {
		c.mu.Unlock()
		return err
	}
	c.sleep(c.selectDelay)
	return nil
}

func (c *spiBus) Deselect() error {
	defer c.mu.Unlock()
	var err error
	if c.inData {
		err = c.EndData()
	}
	c.sleep(c.selectDelay)
	if cerr := c.updateCS(gpio.High); err == nil {
		err = cerr
	}
	return err
}

func (c *spiBus) Command(cmd byte) error {
	if c.inData {
		return ErrDataPhase
	}
	if err := c.updateDC(false); err != nil {
		return err
	}
	return c.write([]byte{cmd})
}

func (c *spiBus) StartData() error {
	if err := c.updateDC(true); err != nil {
		return err
	}
	c.inData = true
	c.buf = c.buf[:0]
	return nil
}

func (c *spiBus) Data(data byte) error {
	if !c.inData {
		if err := c.updateDC(true); err != nil {
			return err
		}
		return c.write([]byte{data})
	}
	c.buf = append(c.buf, data)
	if len(c.buf) >= c.batchSize {
		return c.flushData()
	}
	return nil
}

func (c *spiBus) EndData() error {
	err := c.flushData()
	c.inData = false
	if derr := c.updateDC(false); err == nil {
		err = derr
	}
	return err
}

func (c *spiBus) flushData() error {
	if len(c.buf) == 0 {
		return nil
	}
	err := c.write(c.buf)
	c.buf = c.buf[:0]
	return err
}

func (c *spiBus) write(p []byte) error {
	if _, err := c.w.Write(p); err != nil {
		return errors.Wrap(err, "lcd: SPI write")
	}
	return nil
}

func (c *spiBus) CommandDelay() {
	c.sleep(c.commandDelay)
}

func (c *spiBus) DataDelay() {
	c.sleep(c.dataDelay)
}
