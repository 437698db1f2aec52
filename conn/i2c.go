package conn

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a connection to a single device on an I²C bus.
type I2C struct {
	bus  i2c.BusCloser
	conn conn.Conn
}

// OpenI2C opens the numbered I²C bus, use a negative device number for the first available bus.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, errors.Wrap(err, "conn: open I²C")
	}

	return NewI2C(bus, addr), nil
}

// NewI2C uses an already opened I²C bus.
func NewI2C(bus i2c.BusCloser, addr uint8) *I2C {
	return &I2C{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: uint16(addr)},
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s", c.bus)
}

func (c *I2C) Close() error {
	return c.bus.Close()
}

func (c *I2C) Write(p []byte) (int, error) {
	if err := c.conn.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}
