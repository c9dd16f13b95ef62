// Package tile provides tile addressing types and the tile source contract.
package tile

import (
	"errors"
	"math"
)

var ErrInvalidGrid = errors.New("slipview: invalid tile grid")

// Coord represents tile coordinates (column, row) within a single level.
type Coord struct {
	Col int
	Row int
}

// Grid describes the tile layout of one zoom level.
type Grid struct {
	CountX, CountY        int
	TileWidth, TileHeight int
	WrapX, WrapY          bool
}

// Validate reports whether the grid can be used for anchor arithmetic.
// Zero tile counts or sizes would make offset normalization divide by zero,
// so they are rejected at configuration time.
func (g Grid) Validate() error {
	if g.CountX < 1 || g.CountY < 1 {
		return ErrInvalidGrid
	}
	if g.TileWidth < 1 || g.TileHeight < 1 {
		return ErrInvalidGrid
	}
	// Map pixel extents beyond int32 would overflow anchor arithmetic on
	// 32-bit platforms.
	if int64(g.CountX)*int64(g.TileWidth) > math.MaxInt32 ||
		int64(g.CountY)*int64(g.TileHeight) > math.MaxInt32 {
		return ErrInvalidGrid
	}
	return nil
}

// Valid reports whether c addresses a tile inside the grid.
func (g Grid) Valid(c Coord) bool {
	return c.Col >= 0 && c.Col < g.CountX && c.Row >= 0 && c.Row < g.CountY
}

// Source is the contract the viewport engine consumes from a tile provider.
//
// Tile must not block: implementations answer from a cache and schedule
// background fetches, invoking the notify callback once data becomes
// available. A missing tile is an empty slice with no error.
type Source interface {
	// Levels returns the supported zoom levels. Must be non-empty.
	Levels() []int

	// TileSize returns the nominal tile pixel dimensions.
	TileSize() (w, h int)

	// Wrap reports whether tile coordinates wrap modulo the tile count
	// in the X and Y axes.
	Wrap() (x, y bool)

	// UseLevel attempts to activate a level, returning whether the source
	// can serve tiles for it. Side-effecting.
	UseLevel(level int) bool

	// GridInfo returns the tile counts for a level without activating it.
	GridInfo(level int) (countX, countY int)

	// Tile returns the encoded tile data at the active level.
	Tile(c Coord) ([]byte, error)

	// SetNotify registers the redraw callback invoked when previously
	// unavailable tile data becomes ready.
	SetNotify(fn func())
}
