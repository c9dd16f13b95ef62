// Package xyz provides a tile source reading tiles stored as individual
// files with paths like "/z/x/y.png".
package xyz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/eak1mov/go-slipview/source"
	"github.com/eak1mov/go-slipview/tile"
)

var ErrInvalidPattern = errors.New("slipview: invalid file pattern")

func validatePattern(pattern string) error {
	for _, p := range []string{"{x}", "{y}", "{z}"} {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return nil
}

func formatPattern(pattern string, level int, c tile.Coord) string {
	result := pattern
	result = strings.ReplaceAll(result, "{x}", fmt.Sprintf("%d", c.Col))
	result = strings.ReplaceAll(result, "{y}", fmt.Sprintf("%d", c.Row))
	result = strings.ReplaceAll(result, "{z}", fmt.Sprintf("%d", level))
	return result
}

// Config describes the tile pyramid behind a file pattern. Each level z
// holds a square 2^z by 2^z grid.
type Config struct {
	Levels                []int
	TileWidth, TileHeight int // default 256
	WrapX, WrapY          bool
}

// Source implements tile.Source for tiles in XYZ directory format. Tile
// reads are answered from an in-memory cache; misses are fetched in the
// background.
type Source struct {
	filePattern string
	config      Config
	cache       *source.Cache
	level       int
}

// New creates a Source for the given file pattern
// (e.g. "/home/user/tiles/{z}/{x}/{y}.png").
func New(filePattern string, config Config, opts ...source.CacheOption) (*Source, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	if len(config.Levels) == 0 {
		return nil, errors.New("slipview: no levels configured")
	}
	if config.TileWidth == 0 {
		config.TileWidth = 256
	}
	if config.TileHeight == 0 {
		config.TileHeight = 256
	}

	s := &Source{
		filePattern: filePattern,
		config:      config,
		level:       slices.Min(config.Levels),
	}
	s.cache = source.NewCache(s.ReadTile, opts...)
	return s, nil
}

func (s *Source) Levels() []int        { return slices.Clone(s.config.Levels) }
func (s *Source) TileSize() (int, int) { return s.config.TileWidth, s.config.TileHeight }
func (s *Source) Wrap() (bool, bool)   { return s.config.WrapX, s.config.WrapY }
func (s *Source) SetNotify(fn func())  { s.cache.SetNotify(fn) }

func (s *Source) UseLevel(level int) bool {
	if !slices.Contains(s.config.Levels, level) {
		return false
	}
	s.level = level
	return true
}

func (s *Source) GridInfo(level int) (int, int) {
	return 1 << level, 1 << level
}

// Grid returns the full grid descriptor for a level.
func (s *Source) Grid(level int) tile.Grid {
	countX, countY := s.GridInfo(level)
	return tile.Grid{
		CountX: countX, CountY: countY,
		TileWidth: s.config.TileWidth, TileHeight: s.config.TileHeight,
		WrapX: s.config.WrapX, WrapY: s.config.WrapY,
	}
}

// Tile returns the cached tile data at the active level, scheduling a
// background read on a miss. Never blocks.
func (s *Source) Tile(c tile.Coord) ([]byte, error) {
	if data, ok := s.cache.Get(s.level, c); ok {
		return data, nil
	}
	return []byte{}, nil
}

// ReadTile reads one tile file synchronously, bypassing the cache.
// A missing file is an empty slice with no error.
func (s *Source) ReadTile(level int, c tile.Coord) ([]byte, error) {
	filePath := formatPattern(s.filePattern, level, c)
	tileData, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return tileData, nil
}

// Prefetch warms the cache with the given tiles of a level.
func (s *Source) Prefetch(ctx context.Context, level int, coords []tile.Coord) error {
	return s.cache.Prefetch(ctx, level, s.Grid(level), coords)
}
