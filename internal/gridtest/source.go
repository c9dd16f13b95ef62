// Package gridtest provides an in-memory tile source for tests.
package gridtest

import "github.com/eak1mov/go-slipview/tile"

// Source is a configurable fake tile.Source. The zero value is not usable;
// fill in the grid fields first.
type Source struct {
	Lvls         []int
	TileW, TileH int
	WrapXY       [2]bool
	Reject       map[int]bool               // levels UseLevel refuses
	Counts       func(level int) (int, int) // default: 2^level square pyramid
	Data         map[tile.Coord][]byte

	Active        int
	UseLevelCalls []int

	notify func()
}

func (s *Source) Levels() []int        { return s.Lvls }
func (s *Source) TileSize() (int, int) { return s.TileW, s.TileH }
func (s *Source) Wrap() (bool, bool)   { return s.WrapXY[0], s.WrapXY[1] }
func (s *Source) SetNotify(fn func())  { s.notify = fn }

func (s *Source) UseLevel(level int) bool {
	s.UseLevelCalls = append(s.UseLevelCalls, level)
	if s.Reject[level] {
		return false
	}
	s.Active = level
	return true
}

func (s *Source) GridInfo(level int) (int, int) {
	if s.Counts != nil {
		return s.Counts(level)
	}
	return 1 << level, 1 << level
}

func (s *Source) Tile(c tile.Coord) ([]byte, error) {
	if data, ok := s.Data[c]; ok {
		return data, nil
	}
	return []byte{}, nil
}

// Notify fires the registered redraw callback, simulating late tile
// arrival.
func (s *Source) Notify() {
	if s.notify != nil {
		s.notify()
	}
}
