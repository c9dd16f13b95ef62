package slip

import (
	"iter"

	"github.com/eak1mov/go-slipview/tile"
)

// Placement is one entry of the draw list: a tile coordinate and the view
// pixel position of its top-left corner.
type Placement struct {
	Coord tile.Coord
	X, Y  int
}

// Visible returns the draw list for the current anchor and viewport, in
// column-major order. The sequence is stateless and restartable; callers
// typically range over it once per repaint.
//
// At least the key tile is always emitted per axis, even for a zero-size
// viewport.
func (v *View) Visible() iter.Seq[Placement] {
	cols, colX := v.x.span()
	rows, rowY := v.y.span()

	return func(yield func(Placement) bool) {
		for i, col := range cols {
			for j, row := range rows {
				p := Placement{
					Coord: tile.Coord{Col: col, Row: row},
					X:     colX[i],
					Y:     rowY[j],
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

// VisitVisible calls visitor for every draw list entry, stopping at the
// first error.
func (v *View) VisitVisible(visitor func(Placement) error) error {
	for p := range v.Visible() {
		if err := visitor(p); err != nil {
			return err
		}
	}
	return nil
}
