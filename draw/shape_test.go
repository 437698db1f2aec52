package draw_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/pixel"
)

func countOn(i *pixel.MonoImage) (n int) {
	r := i.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if i.Bit(x, y) {
				n++
			}
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Point
		want int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 2), image.Pt(9, 2), 10},
		{"horizontal reversed", image.Pt(9, 2), image.Pt(0, 2), 10},
		{"vertical", image.Pt(4, 0), image.Pt(4, 7), 8},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7), 8},
		{"anti diagonal", image.Pt(7, 0), image.Pt(0, 7), 8},
		{"shallow", image.Pt(0, 0), image.Pt(15, 3), 16},
		{"steep", image.Pt(0, 0), image.Pt(3, 15), 16},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i := pixel.NewMonoImage(16, 16)
			draw.Line(i, test.a, test.b, pixel.On)
			assert.True(t, i.Bit(test.a.X, test.a.Y), "start point")
			assert.True(t, i.Bit(test.b.X, test.b.Y), "end point")
			assert.Equal(t, test.want, countOn(i))
		})
	}
}

func TestRectangle(t *testing.T) {
	i := pixel.NewMonoImage(16, 16)
	draw.Rectangle(i, image.Rect(2, 3, 12, 8), pixel.On)

	assert.Equal(t, 2*10+2*5-4, countOn(i))
	for _, p := range []image.Point{{2, 3}, {11, 3}, {2, 7}, {11, 7}} {
		assert.True(t, i.Bit(p.X, p.Y), "corner %s", p)
	}
	assert.False(t, i.Bit(12, 3))
	assert.False(t, i.Bit(5, 5))
}

func TestBox(t *testing.T) {
	i := pixel.NewMonoImage(16, 16)
	draw.Box(i, image.Rect(12, 8, 2, 3), pixel.On)
	assert.Equal(t, 10*5, countOn(i))

	draw.Box(i, image.Rect(4, 4, 6, 6), pixel.Off)
	assert.Equal(t, 10*5-4, countOn(i))
}

func TestRoundedBox(t *testing.T) {
	i := pixel.NewMonoImage(32, 32)
	rect := image.Rect(0, 0, 20, 10)
	draw.RoundedBox(i, rect, 3, pixel.On)

	require.False(t, i.Bit(0, 0), "corner should be rounded off")
	require.False(t, i.Bit(19, 9), "corner should be rounded off")
	assert.True(t, i.Bit(10, 0))
	assert.True(t, i.Bit(0, 5))
	assert.True(t, i.Bit(19, 5))
	assert.True(t, i.Bit(10, 9))
	assert.False(t, i.Bit(20, 5))
	assert.False(t, i.Bit(10, 10))
}

func TestRoundedRectangle(t *testing.T) {
	i := pixel.NewMonoImage(32, 32)
	draw.RoundedRectangle(i, image.Rect(0, 0, 20, 10), 3, pixel.On)

	assert.False(t, i.Bit(0, 0))
	assert.True(t, i.Bit(10, 0))
	assert.True(t, i.Bit(0, 5))
	assert.False(t, i.Bit(10, 5), "outline must not be filled")
}

func TestCircle(t *testing.T) {
	i := pixel.NewMonoImage(32, 32)
	draw.Circle(i, image.Pt(16, 16), 5, pixel.On)

	for _, p := range []image.Point{{16, 11}, {16, 21}, {11, 16}, {21, 16}} {
		assert.True(t, i.Bit(p.X, p.Y), "extreme %s", p)
	}
	assert.False(t, i.Bit(16, 16))
}
