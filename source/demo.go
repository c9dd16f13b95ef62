package source

import (
	"slices"

	"github.com/eak1mov/go-slipview/tile"
)

// Demo is a synthetic tile source for exercising the widget without tile
// data: every tile is a small deterministic byte pattern derived from its
// level and coordinates. Tiles are always available, so reads are
// synchronous and the notify callback is never needed.
type Demo struct {
	levels                []int
	tileWidth, tileHeight int
	level                 int
}

// NewDemo creates a wrapping 2^level pyramid over levels 0..6 with tiles
// of the given pixel size.
func NewDemo(tileWidth, tileHeight int) *Demo {
	return &Demo{
		levels:     []int{0, 1, 2, 3, 4, 5, 6},
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
	}
}

func (d *Demo) Levels() []int        { return slices.Clone(d.levels) }
func (d *Demo) TileSize() (int, int) { return d.tileWidth, d.tileHeight }
func (d *Demo) Wrap() (bool, bool)   { return true, true }
func (d *Demo) SetNotify(fn func())  {}

func (d *Demo) UseLevel(level int) bool {
	if !slices.Contains(d.levels, level) {
		return false
	}
	d.level = level
	return true
}

func (d *Demo) GridInfo(level int) (int, int) {
	return 1 << level, 1 << level
}

func (d *Demo) Tile(c tile.Coord) ([]byte, error) {
	return d.ReadTile(d.level, c)
}

func (d *Demo) ReadTile(level int, c tile.Coord) ([]byte, error) {
	return []byte{byte(level), byte(c.Col), byte(c.Row), byte(c.Col ^ c.Row)}, nil
}
