// Package slip implements the viewport anchor engine of a slippy-map
// widget: it tracks a single "key" tile anchoring the map's pixel grid to
// the viewport, keeps that anchor consistent across pans, zooms and
// resizes, and enumerates which tiles must be drawn at which pixel offsets.
//
// The engine owns no pixels and performs no I/O. Tile data, painting and
// the event loop belong to the surrounding toolkit; see tile.Source for
// the contract the engine consumes.
package slip

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/eak1mov/go-slipview/tile"
)

var (
	ErrNoLevels      = errors.New("slipview: tile source has no levels")
	ErrLevelRejected = errors.New("slipview: tile source rejected level")
)

// Point is a level-independent map position with both coordinates
// normalized to [0, 1] over the full map extent.
type Point struct {
	X, Y float64
}

// Extent is a map-space rectangle size in the same normalized units.
type Extent struct {
	W, H float64
}

// View is the viewport anchor engine. One instance per widget; all methods
// must be called from the single goroutine owning the UI event loop.
type View struct {
	src tile.Source

	level    int
	minLevel int
	maxLevel int

	x, y axis

	drag   dragState
	notify func()
	logger *slog.Logger
}

type viewConfig struct {
	Notify func()
	Logger *slog.Logger
}

type Option func(*viewConfig)

// WithRedraw sets the callback invoked whenever the view needs repainting.
// Invocations are fire-and-forget and may be coalesced by the receiver.
func WithRedraw(fn func()) Option {
	return func(c *viewConfig) { c.Notify = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *viewConfig) { c.Logger = logger }
}

// New creates a view over src starting at startLevel. The viewport size is
// zero until the first Resize. New fails fast on malformed grids so that
// anchor arithmetic never divides by zero later.
func New(src tile.Source, startLevel int, opts ...Option) (*View, error) {
	config := viewConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	levels := src.Levels()
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}

	if !src.UseLevel(startLevel) {
		return nil, fmt.Errorf("%w: %d", ErrLevelRejected, startLevel)
	}

	grid, err := levelGrid(src, startLevel)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", startLevel, err)
	}

	v := &View{
		src:      src,
		level:    startLevel,
		minLevel: slices.Min(levels),
		maxLevel: slices.Max(levels),
		x:        axis{size: grid.TileWidth, count: grid.CountX, wrap: grid.WrapX},
		y:        axis{size: grid.TileHeight, count: grid.CountY, wrap: grid.WrapY},
		notify:   config.Notify,
		logger:   config.Logger,
	}
	src.SetNotify(v.requestRedraw)

	return v, nil
}

// levelGrid assembles and validates the grid descriptor for a level.
func levelGrid(src tile.Source, level int) (tile.Grid, error) {
	w, h := src.TileSize()
	wrapX, wrapY := src.Wrap()
	countX, countY := src.GridInfo(level)

	grid := tile.Grid{
		CountX: countX, CountY: countY,
		TileWidth: w, TileHeight: h,
		WrapX: wrapX, WrapY: wrapY,
	}
	return grid, grid.Validate()
}

// Anchor returns the current key tile and its view pixel offset.
func (v *View) Anchor() Anchor {
	return Anchor{Col: v.x.coord, Row: v.y.coord, OffsetX: v.x.offset, OffsetY: v.y.offset}
}

// Level returns the current zoom level.
func (v *View) Level() int { return v.level }

// Levels returns the zoom level bounds derived from the tile source.
func (v *View) Levels() (minLevel, maxLevel int) { return v.minLevel, v.maxLevel }

// Size returns the current viewport pixel dimensions.
func (v *View) Size() (w, h int) { return v.x.view, v.y.view }

// Pan moves the map content by (dx, dy) pixels. Positive dx moves content
// left, exposing tiles to the right; positive dy moves content up.
// Pan(0, 0) leaves the anchor unchanged.
func (v *View) Pan(dx, dy int) {
	v.x.pan(dx)
	v.y.pan(dy)
	v.requestRedraw()
}

// ZoomTo switches to the given level, keeping the map point under the
// viewport center fixed. The accept/reject decision belongs to the tile
// source; on rejection the view state is untouched and ZoomTo returns
// false.
func (v *View) ZoomTo(level int) bool {
	if !v.src.UseLevel(level) {
		v.logger.Debug("slipview: level rejected", "level", level)
		return false
	}
	grid, err := levelGrid(v.src, level)
	if err != nil {
		v.logger.Error("slipview: unusable grid", "level", level, "error", err)
		return false
	}

	v.level = level
	v.x.rescale(grid.TileWidth, grid.CountX)
	v.y.rescale(grid.TileHeight, grid.CountY)
	v.requestRedraw()
	return true
}

// Resize records the new viewport dimensions and re-applies the bounded
// axis clamp so a finite map stays pinned or centered. Wrapping axes keep
// their anchor untouched.
func (v *View) Resize(w, h int) {
	v.x.view = max(w, 0)
	v.y.view = max(h, 0)
	if !v.x.wrap {
		v.x.clamp(v.x.left())
	}
	if !v.y.wrap {
		v.y.clamp(v.y.left())
	}
	v.requestRedraw()
}

// PanTo centers the given map point in the viewport at the current level.
func (v *View) PanTo(pt Point) {
	v.x.centerOn(mapPixel(pt.X, v.x.mapLen()))
	v.y.centerOn(mapPixel(pt.Y, v.y.mapLen()))
	v.requestRedraw()
}

// ZoomToPosition switches to the given level and centers the given map
// point. Returns false, leaving the view untouched, if the source rejects
// the level.
func (v *View) ZoomToPosition(level int, pt Point) bool {
	if !v.ZoomTo(level) {
		return false
	}
	v.PanTo(pt)
	return true
}

// ZoomToArea picks the most detailed level at which the given map-space
// area still fits inside the viewport, then centers it. Falls back to the
// minimum level when the area fits nowhere.
func (v *View) ZoomToArea(center Point, size Extent) bool {
	levels := slices.Clone(v.src.Levels())
	slices.Sort(levels)
	slices.Reverse(levels)

	w, h := v.src.TileSize()
	for _, level := range levels {
		countX, countY := v.src.GridInfo(level)
		pixW := size.W * float64(countX) * float64(w)
		pixH := size.H * float64(countY) * float64(h)
		if pixW <= float64(v.x.view) && pixH <= float64(v.y.view) {
			return v.ZoomToPosition(level, center)
		}
	}
	return v.ZoomToPosition(v.minLevel, center)
}

// Tile returns the encoded tile data for a visible placement. It answers
// from the source's cache and never blocks; absent tiles are empty.
func (v *View) Tile(c tile.Coord) ([]byte, error) {
	return v.src.Tile(c)
}

func (v *View) requestRedraw() {
	if v.notify != nil {
		v.notify()
	}
}

// mapPixel converts a normalized map coordinate to an absolute map pixel.
func mapPixel(f float64, mapLen int) int {
	return int(f * float64(mapLen))
}
