package slip

// Anchor is the key tile and its sub-tile pixel offset. The key tile's
// top-left corner sits at view pixel (OffsetX, OffsetY); every other visible
// tile position is derived from it.
type Anchor struct {
	Col, Row         int
	OffsetX, OffsetY int
}

// axis holds the anchor bookkeeping for one direction. X and Y are fully
// independent: panning, zooming and clamping apply the same arithmetic with
// different tile sizes, counts and wrap flags.
type axis struct {
	coord  int // key tile coordinate
	offset int // view pixel position of the key tile's leading edge
	size   int // tile pixel size at the current level
	count  int // tile count at the current level
	wrap   bool
	view   int // viewport extent in pixels
}

// mapLen returns the full map extent in pixels at the current level.
func (a *axis) mapLen() int { return a.count * a.size }

// left returns the map pixel coordinate under the view's leading edge.
func (a *axis) left() int { return a.coord*a.size - a.offset }

// pan moves the content by delta pixels (positive delta moves content
// toward the leading edge, exposing tiles past the trailing edge).
//
// On a wrapping axis the key tile is re-derived incrementally, one tile per
// loop iteration. A single modulo would not track the coordinate correctly
// across level changes where the tile size differs, so the two loops must
// stay independent. The offset always ends in (-size, 0].
func (a *axis) pan(delta int) {
	if !a.wrap {
		a.clamp(a.left() + delta)
		return
	}
	a.offset -= delta
	for a.offset > 0 {
		a.offset -= a.size
		a.coord = (a.coord - 1 + a.count) % a.count
	}
	for a.offset <= -a.size {
		a.offset += a.size
		a.coord = (a.coord + 1) % a.count
	}
}

// clamp places the view's leading edge at map pixel l on a bounded axis.
// When the view is at least as large as the map the map stays centered and
// l is ignored; otherwise l is clamped so no blank space shows past an edge.
func (a *axis) clamp(l int) {
	mapLen := a.mapLen()
	if mapLen <= a.view {
		a.coord = 0
		a.offset = (a.view - mapLen) / 2
		return
	}
	l = min(max(l, 0), mapLen-a.view)
	if l > mapLen-1 {
		l = mapLen - 1 // degenerate viewport
	}
	a.coord = l / a.size
	a.offset = -(l % a.size)
}

// setLeft places the view's leading edge at map pixel l, wrapping or
// clamping as the axis demands.
func (a *axis) setLeft(l int) {
	if !a.wrap {
		a.clamp(l)
		return
	}
	l = floorMod(l, a.mapLen())
	a.coord = l / a.size
	a.offset = -(l % a.size)
}

// centerOn places map pixel c at the middle of the view.
func (a *axis) centerOn(c int) {
	a.setLeft(c - a.view/2)
}

// rescale switches the axis to a new level's tile size and count while
// keeping the map point under the view center fixed. The center's absolute
// map pixel position is scaled by the integer length ratio of the levels.
func (a *axis) rescale(newSize, newCount int) {
	oldLen := int64(a.mapLen())
	newLen := int64(newCount) * int64(newSize)
	center := int64(a.left()) + int64(a.view)/2
	newCenter := center * newLen / oldLen

	a.size = newSize
	a.count = newCount
	a.setLeft(int(newCenter) - a.view/2)
}

// span enumerates the visible tile coordinates along the axis together with
// their view pixel positions. The key tile is always emitted, even for a
// degenerate zero-size view, so the widget never renders empty.
func (a *axis) span() (coords, pixels []int) {
	coord := a.coord
	cursor := a.offset
	for {
		coords = append(coords, coord)
		pixels = append(pixels, cursor)
		if !a.wrap && coord >= a.count-1 {
			break
		}
		coord = (coord + 1) % a.count
		cursor += a.size
		if cursor >= a.view {
			break
		}
	}
	return coords, pixels
}

func floorMod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
