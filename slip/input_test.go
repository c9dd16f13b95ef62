package slip_test

import (
	"testing"

	"github.com/eak1mov/go-slipview/slip"
	"github.com/google/go-cmp/cmp"
)

func TestDragPansView(t *testing.T) {
	v, _ := newWrapView(t)

	v.PointerDown(slip.PointerEvent{Button: slip.ButtonLeft, X: 400, Y: 300})

	// The first move only primes the drag origin.
	v.PointerMove(slip.PointerEvent{X: 390, Y: 295})
	if diff := cmp.Diff(slip.Anchor{}, v.Anchor()); diff != "" {
		t.Errorf("anchor moved before drag origin was primed (-want+got):\n%v", diff)
	}

	// Dragging the content 300px left and 50px down.
	v.PointerMove(slip.PointerEvent{X: 90, Y: 345})
	want := slip.Anchor{Col: 1, Row: 3, OffsetX: -44, OffsetY: -206}
	if diff := cmp.Diff(want, v.Anchor()); diff != "" {
		t.Errorf("anchor after drag (-want+got):\n%v", diff)
	}

	// Releasing ends the drag; further motion is ignored.
	v.PointerUp(slip.PointerEvent{Button: slip.ButtonLeft, X: 90, Y: 345})
	v.PointerMove(slip.PointerEvent{X: 0, Y: 0})
	if diff := cmp.Diff(want, v.Anchor()); diff != "" {
		t.Errorf("anchor moved after release (-want+got):\n%v", diff)
	}
}

func TestDragResumesFromNewOrigin(t *testing.T) {
	v, _ := newWrapView(t)

	v.PointerDown(slip.PointerEvent{Button: slip.ButtonLeft, X: 100, Y: 100})
	v.PointerMove(slip.PointerEvent{X: 100, Y: 100})
	v.PointerMove(slip.PointerEvent{X: 50, Y: 100})
	v.PointerUp(slip.PointerEvent{Button: slip.ButtonLeft, X: 50, Y: 100})

	// A second drag must not replay the gap between the gestures.
	v.PointerDown(slip.PointerEvent{Button: slip.ButtonLeft, X: 500, Y: 500})
	v.PointerMove(slip.PointerEvent{X: 500, Y: 500})
	v.PointerMove(slip.PointerEvent{X: 450, Y: 500})

	equivalent, _ := newWrapView(t)
	equivalent.Pan(100, 0)
	if diff := cmp.Diff(equivalent.Anchor(), v.Anchor()); diff != "" {
		t.Errorf("two drags diverge from one pan (-want+got):\n%v", diff)
	}
}

func TestNonLeftButtonsDoNotDrag(t *testing.T) {
	v, _ := newWrapView(t)

	for _, b := range []slip.Button{slip.ButtonNone, slip.ButtonMiddle, slip.ButtonRight} {
		v.PointerDown(slip.PointerEvent{Button: b, X: 100, Y: 100})
		v.PointerMove(slip.PointerEvent{X: 100, Y: 100})
		v.PointerMove(slip.PointerEvent{X: 0, Y: 0})
		v.PointerUp(slip.PointerEvent{Button: b})
	}
	if diff := cmp.Diff(slip.Anchor{}, v.Anchor()); diff != "" {
		t.Errorf("non-left button dragged the view (-want+got):\n%v", diff)
	}
}

func TestWheelZoom(t *testing.T) {
	v, src := newPyramidView(t, 1)

	if !v.Wheel(slip.WheelDown) {
		t.Fatal("Wheel(WheelDown) rejected")
	}
	if got, want := v.Level(), 2; got != want {
		t.Errorf("Level() = %v after wheel down, want %v", got, want)
	}

	if !v.Wheel(slip.WheelUp) {
		t.Fatal("Wheel(WheelUp) rejected")
	}
	if got, want := v.Level(), 1; got != want {
		t.Errorf("Level() = %v after wheel up, want %v", got, want)
	}

	// Past the source's limits the level sticks.
	src.Reject = map[int]bool{0: true}
	v.ZoomTo(1)
	v.Wheel(slip.WheelUp)
	if v.Wheel(slip.WheelUp) {
		t.Error("Wheel(WheelUp) accepted past the minimum level")
	}
}
