package lcd

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/lcd/framebuffer"
	"github.com/BeatGlow/lcd/pixel"
)

// recorder collects the pin transitions and bus writes in order.
type recorder struct {
	log []string
	err error
}

func (r *recorder) Write(p []byte) (int, error) {
	r.log = append(r.log, fmt.Sprintf("w=% x", p))
	if r.err != nil {
		return 0, r.err
	}
	return len(p), nil
}

func (r *recorder) String() string {
	return "recorder"
}

// recordingPin is an output pin that logs every level change.
type recordingPin struct {
	gpio.PinOut
	name string
	rec  *recorder
}

func newRecordingPin(name string, rec *recorder) *recordingPin {
	return &recordingPin{PinOut: gpio.INVALID, name: name, rec: rec}
}

func (p *recordingPin) Out(level gpio.Level) error {
	p.rec.log = append(p.rec.log, fmt.Sprintf("%s=%s", p.name, level))
	return nil
}

func newTestSPIBus(t *testing.T, config SPIConfig) (*spiBus, *recorder, *[]time.Duration) {
	t.Helper()

	rec := new(recorder)
	config.DC = newRecordingPin("DC", rec)
	config.CS = newRecordingPin("CS", rec)
	c, err := config.withDefaults()
	require.NoError(t, err)

	var sleeps []time.Duration
	bus := newSPIBus(rec, nil, c)
	bus.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return bus, rec, &sleeps
}

func TestSPIBusFlush(t *testing.T) {
	bus, rec, sleeps := newTestSPIBus(t, SPIConfig{BatchSize: 4})

	fb := framebuffer.NewMono(6, 8)
	fb.Fill(pixel.On)

	more, err := NewFlusher(bus, fb, nil).FlushSome()
	require.NoError(t, err)
	assert.False(t, more)

	assert.Equal(t, []string{
		"CS=Low",
		"DC=Low",
		"w=00",
		"w=10",
		"w=b0",
		"DC=High",
		"w=ff ff ff ff",
		"w=ff ff",
		"DC=Low",
		"CS=High",
	}, rec.log)

	var (
		sel  = DefaultSPIConfig.SelectDelay
		cmd  = DefaultSPIConfig.CommandDelay
		data = DefaultSPIConfig.DataDelay
	)
	assert.Equal(t, []time.Duration{sel, sel, cmd, data, sel}, *sleeps)
}

func TestSPIBusDataLow(t *testing.T) {
	bus, rec, _ := newTestSPIBus(t, SPIConfig{DataLow: true})

	require.NoError(t, bus.Select())
	require.NoError(t, bus.Command(0xAF))
	require.NoError(t, bus.StartData())
	require.NoError(t, bus.Data(0x55))
	require.NoError(t, bus.Deselect())

	assert.Equal(t, []string{
		"CS=Low",
		"DC=High",
		"w=af",
		"DC=Low",
		"w=55",
		"DC=High",
		"CS=High",
	}, rec.log)
}

func TestSPIBusCommandDuringData(t *testing.T) {
	bus, _, _ := newTestSPIBus(t, SPIConfig{})

	require.NoError(t, bus.Select())
	require.NoError(t, bus.StartData())
	assert.ErrorIs(t, bus.Command(0x00), ErrDataPhase)
	require.NoError(t, bus.Deselect())
	assert.False(t, bus.inData, "deselect ends the data phase")
}

func TestSPIBusWriteError(t *testing.T) {
	bus, rec, _ := newTestSPIBus(t, SPIConfig{})
	rec.err = errors.New("EIO")

	err := commands(bus, 0xAE)
	require.Error(t, err)
	assert.ErrorIs(t, err, rec.err)
	assert.Contains(t, err.Error(), "lcd: SPI write")
	assert.Equal(t, "CS=High", rec.log[len(rec.log)-1], "chip select is released after a failed write")
}

func TestSPIBusExclusive(t *testing.T) {
	bus, _, _ := newTestSPIBus(t, SPIConfig{})

	require.NoError(t, bus.Select())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Select()
		_ = bus.Deselect()
	}()

	select {
	case <-done:
		t.Fatal("second select did not wait for the bus")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, bus.Deselect())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second select never acquired the bus")
	}
}

func TestSPIConfigDefaults(t *testing.T) {
	rec := new(recorder)
	dc := newRecordingPin("DC", rec)

	config := &SPIConfig{DC: dc}
	c, err := config.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, DefaultSPIConfig.SpeedHz, c.SpeedHz)
	assert.Equal(t, DefaultSPIConfig.BatchSize, c.BatchSize)
	assert.Equal(t, time.Microsecond, c.SelectDelay)
	assert.Equal(t, 64*time.Microsecond, c.CommandDelay)
	assert.Equal(t, 4*time.Microsecond, c.DataDelay)
	assert.Zero(t, config.SpeedHz, "the caller's config is not modified")

	_, err = (&SPIConfig{}).withDefaults()
	assert.ErrorIs(t, err, ErrDCPin)

	_, err = (&SPIConfig{DC: gpio.INVALID}).withDefaults()
	assert.ErrorIs(t, err, ErrDCPin)

	_, err = (&SPIConfig{DC: dc, SpeedHz: 1_234_567}).withDefaults()
	assert.Error(t, err)
}

type fakeSPIConn struct {
	tx [][]byte
}

func (c *fakeSPIConn) String() string {
	return "spi0.0"
}

func (c *fakeSPIConn) Tx(w, r []byte) error {
	c.tx = append(c.tx, append([]byte(nil), w...))
	return nil
}

func (c *fakeSPIConn) Duplex() conn.Duplex {
	return conn.Half
}

func TestNewSPI(t *testing.T) {
	var (
		rec = new(recorder)
		c   = new(fakeSPIConn)
	)
	bus, err := NewSPI(c, &SPIConfig{DC: newRecordingPin("DC", rec)})
	require.NoError(t, err)
	assert.Equal(t, "SPI bus spi0.0", bus.String())

	require.NoError(t, commands(bus, 0xAE, 0xAF))
	assert.Equal(t, [][]byte{{0xAE}, {0xAF}}, c.tx)
	assert.NoError(t, bus.Close(), "the caller owns the connection")

	_, err = NewSPI(c, &SPIConfig{})
	assert.ErrorIs(t, err, ErrDCPin)
}

func TestSPIBusReset(t *testing.T) {
	rec := new(recorder)
	bus, err := NewSPI(new(fakeSPIConn), &SPIConfig{
		DC:    newRecordingPin("DC", rec),
		Reset: newRecordingPin("RST", rec),
	})
	require.NoError(t, err)

	require.NoError(t, bus.Reset(gpio.Low))
	require.NoError(t, bus.Reset(gpio.High))
	assert.Equal(t, []string{"RST=Low", "RST=High"}, rec.log)
}
