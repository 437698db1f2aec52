// Package framebuffer provides an in-memory bilevel pixel buffer with damage tracking.
//
// A [Mono] framebuffer owns a single outstanding dirty rectangle. Drawing grows the
// rectangle; a display driver claims and shrinks it while it transmits the changed
// area to the controller. Pixels and the rectangle share one lock, so drawing and
// flushing may run on different goroutines.
package framebuffer

import (
	"fmt"
	"image"
)

// Region is a half-open dirty rectangle [StartCol,EndCol) × [StartRow,EndRow).
//
// A region with EndCol <= StartCol or EndRow <= StartRow is empty.
type Region struct {
	StartCol int
	EndCol   int
	StartRow int
	EndRow   int
}

// EmptyRegion is the canonical "nothing pending" region for a w×h buffer.
func EmptyRegion(w, h int) Region {
	return Region{
		StartCol: w,
		StartRow: h,
	}
}

// Empty reports whether there is nothing dirty in the region.
func (r Region) Empty() bool {
	return r.EndCol <= r.StartCol || r.EndRow <= r.StartRow
}

// Rect returns the region as an [image.Rectangle]; empty regions map to the zero rectangle.
func (r Region) Rect() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(r.StartCol, r.StartRow, r.EndCol, r.EndRow)
}

// Grow extends the region to include rect.
func (r *Region) Grow(rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	r.StartCol = min(r.StartCol, rect.Min.X)
	r.EndCol = max(r.EndCol, rect.Max.X)
	r.StartRow = min(r.StartRow, rect.Min.Y)
	r.EndRow = max(r.EndRow, rect.Max.Y)
}

func (r Region) String() string {
	return fmt.Sprintf("cols [%d,%d) rows [%d,%d)", r.StartCol, r.EndCol, r.StartRow, r.EndRow)
}
