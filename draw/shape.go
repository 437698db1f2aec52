package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the outline of rect, Max is exclusive.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		HorizontalLine(dst, rect.Min.X, y, rect.Dx(), c)
	}
}

// RoundedRectangle draws a rectangle with radius pixels rounded corners.
func RoundedRectangle(dst Image, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	r := clampRadius(rect, radius)
	if r == 0 {
		Rectangle(dst, rect, c)
		return
	}
	var (
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, x+r, y, w-2*r, c)
	HorizontalLine(dst, x+r, y+h-1, w-2*r, c)
	VerticalLine(dst, x, y+r, h-2*r, c)
	VerticalLine(dst, x+w-1, y+r, h-2*r, c)
	corner(dst, x+r, y+r, r, quadrantTopLeft, c)
	corner(dst, x+w-r-1, y+r, r, quadrantTopRight, c)
	corner(dst, x+w-r-1, y+h-r-1, r, quadrantBottomRight, c)
	corner(dst, x+r, y+h-r-1, r, quadrantBottomLeft, c)
}

// RoundedBox draws a filled rectangle with radius pixels rounded corners.
func RoundedBox(dst Image, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	r := clampRadius(rect, radius)
	if r == 0 {
		Box(dst, rect, c)
		return
	}
	var (
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	Box(dst, image.Rect(x, y+r, x+w, y+h-r), c)
	// Fill the top and bottom bands row by row, narrowing towards the corners.
	forEachArcPoint(r, func(dx, dy int) {
		HorizontalLine(dst, x+r-dx, y+r-dy, w-2*r+2*dx, c)
		HorizontalLine(dst, x+r-dx, y+h-r-1+dy, w-2*r+2*dx, c)
	})
}

// Circle draws the outline of a circle centered at p.
func Circle(dst Image, p image.Point, radius int, c color.Color) {
	if radius <= 0 {
		dst.Set(p.X, p.Y, c)
		return
	}
	corner(dst, p.X, p.Y, radius, quadrantAll, c)
}

// Quadrant bits used by corner.
const (
	quadrantTopLeft = 1 << iota
	quadrantTopRight
	quadrantBottomRight
	quadrantBottomLeft
	quadrantAll = quadrantTopLeft | quadrantTopRight | quadrantBottomRight | quadrantBottomLeft
)

func clampRadius(rect image.Rectangle, radius int) int {
	if radius < 0 {
		return 0
	}
	if m := (min(rect.Dx(), rect.Dy()) - 1) / 2; radius > m {
		return max(m, 0)
	}
	return radius
}

// forEachArcPoint walks one octant of a midpoint circle and reports every point
// of the quarter arc as (dx, dy) offsets from the center, with dx, dy >= 0.
func forEachArcPoint(radius int, fn func(dx, dy int)) {
	var (
		f    = 1 - radius
		ddFx = 1
		ddFy = -2 * radius
		x    = 0
		y    = radius
	)
	fn(0, radius)
	fn(radius, 0)
	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		fn(x, y)
		fn(y, x)
	}
}

func corner(dst Image, x0, y0, radius, quadrant int, c color.Color) {
	forEachArcPoint(radius, func(dx, dy int) {
		if quadrant&quadrantTopLeft != 0 {
			dst.Set(x0-dx, y0-dy, c)
		}
		if quadrant&quadrantTopRight != 0 {
			dst.Set(x0+dx, y0-dy, c)
		}
		if quadrant&quadrantBottomRight != 0 {
			dst.Set(x0+dx, y0+dy, c)
		}
		if quadrant&quadrantBottomLeft != 0 {
			dst.Set(x0-dx, y0+dy, c)
		}
	})
}

// bresenham plots every pixel of the line from (x1,y1) to (x2,y2), both inclusive.
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		dst.Set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
