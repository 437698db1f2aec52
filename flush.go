package lcd

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/BeatGlow/lcd/framebuffer"
)

// Tile dimensions, one tile is one byte of display memory.
const (
	TileWidth  = 1
	TileHeight = 8
)

// PixelSource is a bilevel pixel buffer with a dirty rectangle, such as [framebuffer.Mono].
type PixelSource interface {
	Bounds() image.Rectangle

	// Pixel reports whether the pixel at (x, y) is lit.
	Pixel(x, y int) bool

	// UpdateDirty calls fn with the dirty region, atomically with respect to drawing.
	UpdateDirty(fn func(*framebuffer.Region))
}

// PackTile packs the 8 pixels of column x starting at row top into one byte, the
// top pixel is the least significant bit.
func PackTile(src PixelSource, x, top int) byte {
	var data byte
	for i := 0; i < TileHeight; i++ {
		if src.Pixel(x, top+i) {
			data |= 1 << uint(i)
		}
	}
	return data
}

// Flusher incrementally transmits the dirty rectangle of a pixel source.
//
// A Flusher is not safe for concurrent use, but drawing into the pixel source may
// happen concurrently with FlushSome.
type Flusher struct {
	bus Bus
	src PixelSource
	log *zap.Logger

	// next is the row the next call resumes at.
	next int

	// ColumnOffset is added to every column address, for panels that don't start at
	// column 0 of the controller memory.
	ColumnOffset int
}

// NewFlusher returns a flusher that sends the damage of src over bus.
func NewFlusher(bus Bus, src PixelSource, logger *zap.Logger) *Flusher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flusher{
		bus: bus,
		src: src,
		log: logger,
	}
}

// Cursor is the row at which the next FlushSome call resumes.
func (f *Flusher) Cursor() int {
	return f.next
}

// FlushSome sends one page-row of the dirty rectangle and returns true if there is
// more to do.
//
// The first row of a sweep is marked as flushed before its pixels are read, so
// damage that lands on that row while it is being sent grows the dirty rectangle
// again and gets flushed by a later call.
//
// If the bus fails, the page-row is marked dirty again and the error is returned.
func (f *Flusher) FlushSome() (more bool, err error) {
	var (
		region framebuffer.Region
		empty  bool
	)
	f.src.UpdateDirty(func(r *framebuffer.Region) {
		if empty = r.Empty(); empty {
			return
		}
		if f.next < r.StartRow || f.next >= r.EndRow {
			f.next = r.StartRow
		}
		if f.next == r.StartRow {
			r.StartRow += TileHeight
		}
		region = *r
	})
	if empty {
		return false, nil
	}

	bounds := f.src.Bounds()
	startCom := f.next &^ (TileHeight - 1)
	if err = f.sendRow(startCom, region.StartCol, region.EndCol); err != nil {
		f.src.UpdateDirty(func(r *framebuffer.Region) {
			r.Grow(image.Rect(region.StartCol, startCom, region.EndCol, startCom+TileHeight).Intersect(bounds))
			f.next = startCom
		})
		f.log.Warn("flush failed", zap.Int("page", startCom/TileHeight), zap.Error(err))
		return true, err
	}

	f.src.UpdateDirty(func(r *framebuffer.Region) {
		if r.StartRow != r.EndRow {
			f.next += TileHeight
			more = true
			return
		}
		*r = framebuffer.EmptyRegion(bounds.Dx(), bounds.Dy())
		f.next = 0
	})

	f.log.With(
		zap.Int("page", startCom/TileHeight),
		zap.Int("start_col", region.StartCol),
		zap.Int("end_col", region.EndCol),
		zap.Bool("more", more),
	).Debug("flushed page")
	return more, nil
}

// Flush calls FlushSome until the dirty rectangle is fully sent.
func (f *Flusher) Flush(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := f.FlushSome()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Reset forgets the flush cursor, the next call starts at the top of the dirty rectangle.
func (f *Flusher) Reset() {
	f.next = 0
}

// sendRow sends the tiles of one page-row in a single addressed write transaction.
func (f *Flusher) sendRow(row, startCol, endCol int) (err error) {
	if err = f.bus.Select(); err != nil {
		return
	}
	defer func() {
		if derr := f.bus.Deselect(); err == nil {
			err = derr
		}
	}()

	if err = setAddress(f.bus, row, startCol+f.ColumnOffset); err != nil {
		return
	}
	if err = f.bus.StartData(); err != nil {
		return
	}
	for x := startCol; x < endCol; x += TileWidth {
		if err = f.bus.Data(PackTile(f.src, x, row)); err != nil {
			break
		}
	}
	if derr := f.bus.EndData(); err == nil {
		err = derr
	}
	f.bus.DataDelay()
	return
}
