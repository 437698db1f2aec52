package lcd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSH1106Init(t *testing.T) {
	tests := []struct {
		width, height int
		comPins       byte
	}{
		{128, 64, 0x12},
		{128, 32, 0x02},
	}
	for _, test := range tests {
		c := new(fakeConn)
		d, err := SH1106(c, &Config{Width: test.width, Height: test.height})
		require.NoError(t, err)

		txs := c.transactions()
		require.Len(t, txs, 1+1+test.height/TileHeight+1)
		assert.Equal(t, []byte{
			0xAE,
			0xD5, 0x80,
			0xA8, byte(test.height - 1),
			0xD3, 0x00,
			0x40,
			0xAD, 0x8B,
			0xDA, test.comPins,
			0x81, 0x7F,
			0xD9, 0x22,
			0xDB, 0x35,
			0xA4,
			0xA6,
		}, txs[0].commands)
		assert.Equal(t, []byte{0xA1, 0xC8}, txs[1].commands)
		assertBlankRefresh(t, txs[2:len(txs)-1], test.width, test.height, 2)
		assert.Equal(t, []byte{0xAF}, txs[len(txs)-1].commands)
		assert.Equal(t, fmt.Sprintf("SH1106 OLED 128x%d", test.height), d.String())
	}
}

func TestSH1106Rotate180(t *testing.T) {
	c := new(fakeConn)
	d, err := SH1106(c, &Config{Rotation: Rotate180})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA0, 0xC0}, c.transactions()[1].commands)

	c.reset()
	require.NoError(t, d.SetRotation(NoRotation))
	assert.Equal(t, []byte{0xA1, 0xC8}, c.commandBytes())
	assert.Equal(t, d.Bounds(), d.Framebuffer().Dirty().Rect(), "rotation redraws the screen")
}

func TestSH1106Size(t *testing.T) {
	_, err := SH1106(new(fakeConn), &Config{Width: 96, Height: 16})
	assert.ErrorIs(t, err, ErrBounds)
}
