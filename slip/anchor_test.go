package slip_test

import (
	"testing"

	"github.com/eak1mov/go-slipview/internal/gridtest"
	"github.com/eak1mov/go-slipview/slip"
	"github.com/google/go-cmp/cmp"
)

// newWrapView builds a view over a wrapping 4x4 grid of 256px tiles at
// every level, the fixture used throughout the pan tests.
func newWrapView(t *testing.T, opts ...slip.Option) (*slip.View, *gridtest.Source) {
	t.Helper()

	src := &gridtest.Source{
		Lvls:   []int{0, 1, 2, 3},
		TileW:  256,
		TileH:  256,
		WrapXY: [2]bool{true, true},
		Counts: func(int) (int, int) { return 4, 4 },
	}
	v, err := slip.New(src, 0, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return v, src
}

func TestPanWraparound(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
		want   slip.Anchor
	}{
		{"positive x", 300, 0, slip.Anchor{Col: 1, Row: 0, OffsetX: -44, OffsetY: 0}},
		{"negative x", -50, 0, slip.Anchor{Col: 3, Row: 0, OffsetX: -206, OffsetY: 0}},
		{"positive y", 0, 300, slip.Anchor{Col: 0, Row: 1, OffsetX: 0, OffsetY: -44}},
		{"negative y", 0, -50, slip.Anchor{Col: 0, Row: 3, OffsetX: 0, OffsetY: -206}},
		{"full wrap", 4 * 256, 0, slip.Anchor{}},
		{"several tiles", 700, -700, slip.Anchor{Col: 2, Row: 1, OffsetX: -188, OffsetY: -68}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newWrapView(t)
			v.Pan(tt.dx, tt.dy)
			if diff := cmp.Diff(tt.want, v.Anchor()); diff != "" {
				t.Errorf("Pan(%d, %d) anchor mismatch (-want+got):\n%v", tt.dx, tt.dy, diff)
			}
		})
	}
}

func TestPanZeroIsIdempotent(t *testing.T) {
	v, _ := newWrapView(t)
	v.Pan(123, -77)
	before := v.Anchor()
	v.Pan(0, 0)
	if diff := cmp.Diff(before, v.Anchor()); diff != "" {
		t.Errorf("Pan(0, 0) changed anchor (-want+got):\n%v", diff)
	}
}

func TestPanComposition(t *testing.T) {
	deltas := []int{300, -50, 1024, -3000, 17, 999, -1}

	split, _ := newWrapView(t)
	total := 0
	for _, d := range deltas {
		split.Pan(d, d)
		total += d
	}

	whole, _ := newWrapView(t)
	whole.Pan(total, total)

	if diff := cmp.Diff(whole.Anchor(), split.Anchor()); diff != "" {
		t.Errorf("accumulated pans diverge from single pan (-want+got):\n%v", diff)
	}
}

func TestPanNormalizationInvariant(t *testing.T) {
	v, _ := newWrapView(t)
	for _, d := range []int{300, -50, 5000, -5000, 1, -1, 255, 256, 257, -257} {
		v.Pan(d, -d)
		a := v.Anchor()
		if a.OffsetX <= -256 || a.OffsetX > 0 {
			t.Errorf("after Pan(%d, %d): OffsetX = %d, want in (-256, 0]", d, -d, a.OffsetX)
		}
		if a.OffsetY <= -256 || a.OffsetY > 0 {
			t.Errorf("after Pan(%d, %d): OffsetY = %d, want in (-256, 0]", d, -d, a.OffsetY)
		}
		if a.Col < 0 || a.Col >= 4 || a.Row < 0 || a.Row >= 4 {
			t.Errorf("after Pan(%d, %d): key tile (%d, %d) outside grid", d, -d, a.Col, a.Row)
		}
	}
}

func TestPanBoundedClamped(t *testing.T) {
	// 4x256 = 1024px map, 600px view: drag moves the anchor but clamps at
	// the map edges so no blank space shows.
	src := &gridtest.Source{
		Lvls:   []int{0},
		TileW:  256,
		TileH:  256,
		Counts: func(int) (int, int) { return 4, 4 },
	}
	v, err := slip.New(src, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v.Resize(600, 600)

	v.Pan(300, 0)
	if diff := cmp.Diff(slip.Anchor{Col: 1, OffsetX: -44}, v.Anchor()); diff != "" {
		t.Errorf("Pan(300, 0) anchor mismatch (-want+got):\n%v", diff)
	}

	v.Pan(-5000, 0) // past the left edge
	if diff := cmp.Diff(slip.Anchor{}, v.Anchor()); diff != "" {
		t.Errorf("pan past left edge not clamped (-want+got):\n%v", diff)
	}

	v.Pan(5000, 0) // past the right edge: left pixel = 1024-600
	if diff := cmp.Diff(slip.Anchor{Col: 1, OffsetX: -168}, v.Anchor()); diff != "" {
		t.Errorf("pan past right edge not clamped (-want+got):\n%v", diff)
	}
}

func TestPanBoundedCentered(t *testing.T) {
	// 2x256 = 512px map in a 600px view: the map stays centered and drag
	// is inert on both axes.
	src := &gridtest.Source{
		Lvls:   []int{0},
		TileW:  256,
		TileH:  256,
		Counts: func(int) (int, int) { return 2, 2 },
	}
	v, err := slip.New(src, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v.Resize(600, 600)

	want := slip.Anchor{OffsetX: 44, OffsetY: 44}
	if diff := cmp.Diff(want, v.Anchor()); diff != "" {
		t.Errorf("centered anchor mismatch (-want+got):\n%v", diff)
	}

	v.Pan(300, -300)
	if diff := cmp.Diff(want, v.Anchor()); diff != "" {
		t.Errorf("drag moved a centered bounded axis (-want+got):\n%v", diff)
	}
}
