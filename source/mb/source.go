// Package mb provides a tile source and a snapshot writer for the MBTiles
// format.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package mb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/eak1mov/go-slipview/source"
	"github.com/eak1mov/go-slipview/tile"
)

// Source implements tile.Source for MBTiles files. Levels come from the
// minzoom/maxzoom metadata, falling back to the distinct zoom levels in
// the tiles table. Tile reads are answered from an in-memory cache.
type Source struct {
	db     *sql.DB
	stmt   *sql.Stmt
	cache  *source.Cache
	logger *slog.Logger

	levels                []int
	tileWidth, tileHeight int
	wrapX, wrapY          bool
	level                 int
}

type sourceConfig struct {
	TileWidth, TileHeight int
	WrapX, WrapY          bool
	Logger                *slog.Logger
	CacheOptions          []source.CacheOption
}

type SourceOption func(*sourceConfig)

// WithTileSize overrides the 256px default tile dimensions.
func WithTileSize(w, h int) SourceOption {
	return func(c *sourceConfig) { c.TileWidth, c.TileHeight = w, h }
}

// WithWrap sets the wrap flags. Web mercator tilesets wrap in X only,
// which is the default.
func WithWrap(x, y bool) SourceOption {
	return func(c *sourceConfig) { c.WrapX, c.WrapY = x, y }
}

func WithSourceLogger(logger *slog.Logger) SourceOption {
	return func(c *sourceConfig) { c.Logger = logger }
}

// WithCacheOptions forwards options to the underlying tile cache.
func WithCacheOptions(opts ...source.CacheOption) SourceOption {
	return func(c *sourceConfig) { c.CacheOptions = opts }
}

// NewSource opens an MBTiles file read-only.
//
// The returned Source must be closed after use to release database
// resources.
func NewSource(filePath string, opts ...SourceOption) (*Source, error) {
	config := sourceConfig{
		TileWidth:  256,
		TileHeight: 256,
		WrapX:      true,
		Logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Source{
		db:         db,
		stmt:       stmt,
		logger:     config.Logger,
		tileWidth:  config.TileWidth,
		tileHeight: config.TileHeight,
		wrapX:      config.WrapX,
		wrapY:      config.WrapY,
	}
	if s.levels, err = s.readLevels(); err != nil {
		s.Close()
		return nil, err
	}
	if len(s.levels) == 0 {
		s.Close()
		return nil, errors.New("slipview: mbtiles file has no zoom levels")
	}
	s.level = slices.Min(s.levels)
	s.cache = source.NewCache(s.ReadTile, config.CacheOptions...)

	return s, nil
}

func (s *Source) Close() error {
	return errors.Join(s.stmt.Close(), s.db.Close())
}

// readLevels derives the level set from metadata, or from the tiles table
// when the minzoom/maxzoom entries are absent.
func (s *Source) readLevels() ([]int, error) {
	metadata, err := s.ReadMetadata()
	if err != nil {
		return nil, err
	}

	var minZoom, maxZoom int
	_, minErr := fmt.Sscanf(metadata["minzoom"], "%d", &minZoom)
	_, maxErr := fmt.Sscanf(metadata["maxzoom"], "%d", &maxZoom)
	if minErr == nil && maxErr == nil && minZoom <= maxZoom {
		levels := make([]int, 0, maxZoom-minZoom+1)
		for z := minZoom; z <= maxZoom; z++ {
			levels = append(levels, z)
		}
		return levels, nil
	}

	rows, err := s.db.Query("SELECT DISTINCT zoom_level FROM tiles ORDER BY zoom_level")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []int
	for rows.Next() {
		var z int
		if err := rows.Scan(&z); err != nil {
			return nil, err
		}
		levels = append(levels, z)
	}
	return levels, rows.Err()
}

func (s *Source) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := s.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	return metadata, rows.Err()
}

func (s *Source) Levels() []int        { return slices.Clone(s.levels) }
func (s *Source) TileSize() (int, int) { return s.tileWidth, s.tileHeight }
func (s *Source) Wrap() (bool, bool)   { return s.wrapX, s.wrapY }
func (s *Source) SetNotify(fn func())  { s.cache.SetNotify(fn) }

func (s *Source) UseLevel(level int) bool {
	if !slices.Contains(s.levels, level) {
		s.logger.Debug("slipview: level not in tileset", "level", level)
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
		TileWidth: s.tileWidth, TileHeight: s.tileHeight,
		WrapX: s.wrapX, WrapY: s.wrapY,
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

// ReadTile reads one tile synchronously, bypassing the cache. A missing
// tile is an empty slice with no error.
func (s *Source) ReadTile(level int, c tile.Coord) ([]byte, error) {
	row := (1 << level) - 1 - c.Row // XYZ -> TMS

	var tileData []byte
	if err := s.stmt.QueryRow(level, c.Col, row).Scan(&tileData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]byte, 0), nil
		}
		return nil, err
	}
	return tileData, nil
}

// Prefetch warms the cache with the given tiles of a level.
func (s *Source) Prefetch(ctx context.Context, level int, coords []tile.Coord) error {
	return s.cache.Prefetch(ctx, level, s.Grid(level), coords)
}
