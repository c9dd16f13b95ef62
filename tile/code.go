package tile

import (
	"math/bits"
	"slices"

	"github.com/google/hilbert"
)

// curveSize returns the side of the smallest power-of-two Hilbert curve
// covering the grid.
func curveSize(g Grid) int {
	n := max(g.CountX, g.CountY)
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Code returns the position of c along the Hilbert curve covering the grid.
// Nearby tiles get nearby codes, which makes the code a good ordering key
// for batched fetches.
func Code(g Grid, c Coord) uint64 {
	h, _ := hilbert.NewHilbert(curveSize(g))
	code, _ := h.MapInverse(c.Col, c.Row)
	return uint64(code)
}

// DecodeCode is the inverse of Code for coordinates inside the grid.
func DecodeCode(g Grid, code uint64) Coord {
	h, _ := hilbert.NewHilbert(curveSize(g))
	x, y, _ := h.Map(int(code))
	return Coord{Col: x, Row: y}
}

// OrderByCode sorts coords in place along the grid's Hilbert curve.
func OrderByCode(g Grid, coords []Coord) {
	h, _ := hilbert.NewHilbert(curveSize(g))
	code := func(c Coord) int {
		v, _ := h.MapInverse(c.Col, c.Row)
		return v
	}
	slices.SortFunc(coords, func(a, b Coord) int {
		return code(a) - code(b)
	})
}
