package slip

// Button identifies a pointer button independent of any toolkit enum.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerEvent carries a decoded pointer notification into the engine.
// X and Y are view pixel coordinates.
type PointerEvent struct {
	Button Button
	X, Y   int
}

// WheelDirection is a decoded wheel rotation step.
type WheelDirection int8

const (
	WheelUp   WheelDirection = -1
	WheelDown WheelDirection = 1
)

// dragState tracks the last pointer position while the left button is
// held. It exists only to turn absolute positions into successive deltas;
// the anchor math consumes deltas, never positions.
type dragState struct {
	active   bool // primed by the first move after a press
	leftDown bool
	x, y     int
}

// PointerDown records a button press. Only the left button starts a drag.
func (v *View) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonLeft {
		v.drag.leftDown = true
	}
}

// PointerUp records a button release, ending any drag in progress.
func (v *View) PointerUp(ev PointerEvent) {
	if ev.Button == ButtonLeft {
		v.drag.leftDown = false
		v.drag.active = false
	}
}

// PointerMove pans the view by the delta from the previous position while
// the left button is held. The first move after a press only primes the
// drag origin.
func (v *View) PointerMove(ev PointerEvent) {
	if !v.drag.leftDown {
		return
	}
	if v.drag.active {
		v.Pan(v.drag.x-ev.X, v.drag.y-ev.Y)
	}
	v.drag.x = ev.X
	v.drag.y = ev.Y
	v.drag.active = true
}

// Wheel zooms one level per wheel step: down zooms in, up zooms out.
// Returns whether the tile source accepted the level change.
func (v *View) Wheel(dir WheelDirection) bool {
	switch dir {
	case WheelDown:
		return v.ZoomTo(v.level + 1)
	case WheelUp:
		return v.ZoomTo(v.level - 1)
	}
	return false
}
