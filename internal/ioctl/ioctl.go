// Package ioctl encodes and issues the ioctl requests used by the spidev transport.
package ioctl

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mode is the IOCTL direction.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) Mode() Mode {
	return Mode(c >> 30 & 0x03)
}

func (c Command) Size() uint16 {
	return uint16(c >> 16 & 0x3fff)
}

func (c Command) String() string {
	var str string
	if c.Mode()&Write > 0 {
		str += " write"
	}
	if c.Mode()&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) 0x%04x", str, c.Size(), uintptr(c&0xffff))
}

// Do executes the ioctl call with a pointer argument.
func Do(fd uintptr, command Command, ptr interface{}) error {
	var p uintptr
	if ptr != nil {
		p = reflect.ValueOf(ptr).Pointer()
	}

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(command), p); errno != 0 {
		return errors.Wrapf(errno, "%s failed", command)
	}
	return nil
}

// Encode an ioctl command.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(cmd&0xffff)
}

// Pointer encodes a command that transfers the value ref points to.
func Pointer(mode Mode, ref interface{}, cmd uintptr) Command {
	size := uint16(reflect.TypeOf(ref).Elem().Size())
	return Encode(mode, size, cmd)
}
