package lcd

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	lcdconn "github.com/BeatGlow/lcd/conn"
)

// I²C control bytes, the first byte of every transfer tells the controller if a
// command or data stream follows.
const (
	i2cCommandStream = 0x00
	i2cDataStream    = 0x40
)

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// BatchSize is the maximum number of data bytes per transfer.
	BatchSize uint

	// Reset pin, optional.
	Reset gpio.PinOut
}

var DefaultI2CConfig = I2CConfig{
	Device:    -1,
	Addr:      0x3c,
	BatchSize: 32,
}

// OpenI2C opens an I²C bus with the periph registry, the periph host drivers must
// be initialized.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}

	c, err := lcdconn.OpenI2C(config.Device, config.Addr)
	if err != nil {
		return nil, err
	}
	return newI2CBus(c, c, config), nil
}

type i2cBus struct {
	mu        sync.Mutex
	w         io.Writer
	closer    io.Closer
	reset     gpio.PinOut
	batchSize int
	inData    bool
	buf       []byte
}

func newI2CBus(w io.Writer, closer io.Closer, config *I2CConfig) *i2cBus {
	batchSize := int(config.BatchSize)
	if batchSize == 0 {
		batchSize = int(DefaultI2CConfig.BatchSize)
	}
	return &i2cBus{
		w:         w,
		closer:    closer,
		reset:     config.Reset,
		batchSize: batchSize,
		buf:       make([]byte, 1, batchSize+1),
	}
}

func (c *i2cBus) String() string {
	return fmt.Sprint(c.w)
}

func (c *i2cBus) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *i2cBus) Reset(level gpio.Level) error {
	if c.reset == nil || c.reset == gpio.INVALID {
		return nil
	}
	return c.reset.Out(level)
}

// Select serializes transactions, there is no chip select on I²C.
func (c *i2cBus) Select() error {
	c.mu.Lock()
	return nil
}

func (c *i2cBus) Deselect() error {
	defer c.mu.Unlock()
	if c.inData {
		return c.EndData()
	}
	return nil
}

func (c *i2cBus) Command(cmd byte) error {
	if c.inData {
		return ErrDataPhase
	}
	return c.write([]byte{i2cCommandStream, cmd})
}

func (c *i2cBus) StartData() error {
	c.inData = true
	c.buf = append(c.buf[:0], i2cDataStream)
	return nil
}

func (c *i2cBus) Data(data byte) error {
	if !c.inData {
		return c.write([]byte{i2cDataStream, data})
	}
	c.buf = append(c.buf, data)
	if len(c.buf) > c.batchSize {
		return c.flushData()
	}
	return nil
}

func (c *i2cBus) EndData() error {
	err := c.flushData()
	c.inData = false
	return err
}

func (c *i2cBus) flushData() error {
	if len(c.buf) <= 1 {
		return nil
	}
	err := c.write(c.buf)
	c.buf = c.buf[:1]
	return err
}

func (c *i2cBus) write(p []byte) error {
	if _, err := c.w.Write(p); err != nil {
		return errors.Wrap(err, "lcd: I²C write")
	}
	return nil
}

// CommandDelay is a no-op, I²C is slow enough for the controller to keep up.
func (c *i2cBus) CommandDelay() {}

func (c *i2cBus) DataDelay() {}
