package lcd

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
)

type opKind int

const (
	opSelect opKind = iota
	opDeselect
	opCommand
	opStartData
	opData
	opEndData
	opCommandDelay
	opDataDelay
)

type op struct {
	kind opKind
	b    byte
}

var errBusFailure = errors.New("bus failure")

// fakeBus records every bus operation.
type fakeBus struct {
	ops      []op
	selected bool
	inData   bool

	// failData fails the n-th Data call, counting from 1.
	failData  int
	dataCalls int

	// onData is called before every data byte is recorded.
	onData func(n int)
}

func (b *fakeBus) Select() error {
	if b.selected {
		panic("nested select")
	}
	b.selected = true
	b.ops = append(b.ops, op{kind: opSelect})
	return nil
}

func (b *fakeBus) Deselect() error {
	if !b.selected {
		panic("deselect without select")
	}
	b.selected = false
	b.ops = append(b.ops, op{kind: opDeselect})
	return nil
}

func (b *fakeBus) Command(v byte) error {
	if !b.selected || b.inData {
		panic("command outside of command phase")
	}
	b.ops = append(b.ops, op{kind: opCommand, b: v})
	return nil
}

func (b *fakeBus) StartData() error {
	b.inData = true
	b.ops = append(b.ops, op{kind: opStartData})
	return nil
}

func (b *fakeBus) Data(v byte) error {
	if !b.selected || !b.inData {
		panic("data outside of data phase")
	}
	b.dataCalls++
	if b.onData != nil {
		b.onData(b.dataCalls)
	}
	if b.dataCalls == b.failData {
		return errBusFailure
	}
	b.ops = append(b.ops, op{kind: opData, b: v})
	return nil
}

func (b *fakeBus) EndData() error {
	b.inData = false
	b.ops = append(b.ops, op{kind: opEndData})
	return nil
}

func (b *fakeBus) CommandDelay() {
	b.ops = append(b.ops, op{kind: opCommandDelay})
}

func (b *fakeBus) DataDelay() {
	b.ops = append(b.ops, op{kind: opDataDelay})
}

func (b *fakeBus) reset() {
	b.ops = b.ops[:0]
}

// transaction is everything sent between a select and deselect.
type transaction struct {
	commands []byte
	data     []byte
	ops      []op
}

func (b *fakeBus) transactions() (out []transaction) {
	var t *transaction
	for _, o := range b.ops {
		switch o.kind {
		case opSelect:
			out = append(out, transaction{})
			t = &out[len(out)-1]
		case opCommand:
			t.commands = append(t.commands, o.b)
		case opData:
			t.data = append(t.data, o.b)
		}
		if t != nil {
			t.ops = append(t.ops, o)
		}
	}
	return
}

func (b *fakeBus) commandBytes() (out []byte) {
	for _, t := range b.transactions() {
		out = append(out, t.commands...)
	}
	return
}

// fakeConn is a fakeBus with the hardware extras of a Conn.
type fakeConn struct {
	fakeBus
	closed int
	resets []gpio.Level
}

func (c *fakeConn) String() string {
	return "fake"
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

func (c *fakeConn) Reset(level gpio.Level) error {
	c.resets = append(c.resets, level)
	return nil
}

var _ Conn = (*fakeConn)(nil)
