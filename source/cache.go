// Package source provides shared plumbing for tile sources: a bounded
// in-memory tile cache with non-blocking reads and Hilbert-ordered
// prefetch.
package source

import (
	"container/list"
	"context"
	"log/slog"
	"sync"

	"github.com/eak1mov/go-slipview/tile"
	"golang.org/x/sync/errgroup"
)

// Fetch loads the encoded tile data for one tile of one level. A missing
// tile is an empty slice with no error.
type Fetch func(level int, c tile.Coord) ([]byte, error)

type cacheKey struct {
	level int
	coord tile.Coord
}

type cacheEntry struct {
	key  cacheKey
	data []byte
}

// Cache is a bounded LRU tile cache in front of a Fetch function.
//
// Get never blocks: a miss schedules a background fetch and reports
// absence, and the notify callback fires once the data lands. That gives
// tile sources the never-blocking Tile contract the viewport engine
// expects.
type Cache struct {
	fetch   Fetch
	logger  *slog.Logger
	maxSize int
	workers int

	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	lru     *list.List // front is most recently used
	pending map[cacheKey]bool
	notify  func()
}

type cacheConfig struct {
	MaxSize int
	Workers int
	Logger  *slog.Logger
}

type CacheOption func(*cacheConfig)

// WithMaxSize bounds the number of cached tiles. Default 512.
func WithMaxSize(n int) CacheOption {
	return func(c *cacheConfig) { c.MaxSize = n }
}

// WithWorkers bounds prefetch concurrency. Default 4.
func WithWorkers(n int) CacheOption {
	return func(c *cacheConfig) { c.Workers = n }
}

func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *cacheConfig) { c.Logger = logger }
}

// NewCache creates a cache over the given fetch function.
func NewCache(fetch Fetch, opts ...CacheOption) *Cache {
	config := cacheConfig{
		MaxSize: 512,
		Workers: 4,
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Cache{
		fetch:   fetch,
		logger:  config.Logger,
		maxSize: config.MaxSize,
		entries: make(map[cacheKey]*list.Element),
		lru:     list.New(),
		pending: make(map[cacheKey]bool),
		workers: config.Workers,
	}
}

// SetNotify registers the callback fired when a background fetch lands.
func (c *Cache) SetNotify(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// Get returns the cached tile data and whether it was present. On a miss
// it schedules a background fetch and returns immediately.
func (c *Cache) Get(level int, coord tile.Coord) ([]byte, bool) {
	key := cacheKey{level: level, coord: coord}

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		data := elem.Value.(*cacheEntry).data
		c.mu.Unlock()
		return data, true
	}
	if c.pending[key] {
		c.mu.Unlock()
		return nil, false
	}
	c.pending[key] = true
	c.mu.Unlock()

	go c.load(key)
	return nil, false
}

// load fetches one tile in the background, stores it and fires the notify
// callback.
func (c *Cache) load(key cacheKey) {
	data, err := c.fetch(key.level, key.coord)

	c.mu.Lock()
	delete(c.pending, key)
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("slipview: tile fetch failed",
			"level", key.level, "col", key.coord.Col, "row", key.coord.Row, "error", err)
		return
	}
	c.store(key, data)
	fn := c.notify
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// store inserts under c.mu.
func (c *Cache) store(key cacheKey, data []byte) {
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).data = data
		return
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, data: data})
	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.lru.Remove(oldest)
	}
}

// Prefetch synchronously loads the given tiles of one level, skipping ones
// already cached. Tiles are fetched in Hilbert curve order so consecutive
// requests hit neighbouring tiles, with bounded concurrency.
func (c *Cache) Prefetch(ctx context.Context, level int, grid tile.Grid, coords []tile.Coord) error {
	todo := make([]tile.Coord, 0, len(coords))
	c.mu.Lock()
	for _, coord := range coords {
		if _, ok := c.entries[cacheKey{level: level, coord: coord}]; !ok {
			todo = append(todo, coord)
		}
	}
	c.mu.Unlock()

	tile.OrderByCode(grid, todo)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, coord := range todo {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := c.fetch(level, coord)
			if err != nil {
				return err
			}
			c.mu.Lock()
			c.store(cacheKey{level: level, coord: coord}, data)
			c.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
