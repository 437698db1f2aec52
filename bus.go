package lcd

import (
	"periph.io/x/conn/v3/gpio"
)

// Bus is the exclusive access serial channel to a display controller.
//
// Every addressed write is bracketed by Select and Deselect; no two brackets may
// interleave. Command and data bytes are told apart by the data/command (A0, DC)
// line, which is low outside of a StartData/EndData phase.
type Bus interface {
	// Select claims the bus and asserts the chip select line.
	Select() error

	// Deselect releases the chip select line and the bus.
	Deselect() error

	// Command sends a command byte.
	Command(byte) error

	// StartData enters the data phase.
	StartData() error

	// Data sends a data byte.
	Data(byte) error

	// EndData leaves the data phase and restores the data/command line.
	EndData() error

	// CommandDelay waits for the controller to settle after addressing.
	CommandDelay()

	// DataDelay waits for the controller to settle after a data phase.
	DataDelay()
}

// Conn is a [Bus] to physical hardware.
type Conn interface {
	Bus

	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level, it's a no-op without reset pin.
	Reset(gpio.Level) error
}

// commands sends a sequence of command bytes in a single select bracket.
func commands(bus Bus, cmds ...byte) (err error) {
	if err = bus.Select(); err != nil {
		return
	}
	for _, cmd := range cmds {
		if err = bus.Command(cmd); err != nil {
			break
		}
	}
	if derr := bus.Deselect(); err == nil {
		err = derr
	}
	return
}
