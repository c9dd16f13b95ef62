package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-slipview/slip"
	"github.com/gdamore/tcell/v2"
	"github.com/google/subcommands"
)

type viewCmd struct {
	src   sourceFlags
	level int
}

func (c *viewCmd) Name() string     { return "view" }
func (c *viewCmd) Synopsis() string { return "interactive terminal map viewer" }
func (c *viewCmd) Usage() string {
	return "slipview view [-i <path>] [-level <n>] [-tilew <n> -tileh <n>]\n" +
		"Drag with the left mouse button to pan, wheel or +/- to zoom, q to quit.\n"
}
func (c *viewCmd) SetFlags(f *flag.FlagSet) {
	// Terminal cells stand in for pixels, so small tiles work best here.
	c.src.register(f, 16, 8)
	f.IntVar(&c.level, "level", 2, "Initial zoom level")
}

func (c *viewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	src, err := c.src.open()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if err := screen.Init(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer screen.Fini()
	screen.EnableMouse()

	// Late tile arrivals land on cache goroutines; an interrupt event
	// hands the redraw back to the event loop.
	v, err := slip.New(src, c.level, slip.WithRedraw(func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	v.Resize(screen.Size())

	c.run(screen, v)
	return subcommands.ExitSuccess
}

func (c *viewCmd) run(screen tcell.Screen, v *slip.View) {
	leftHeld := false
	panStep := c.src.tileW / 2

	for {
		c.draw(screen, v)

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.Resize(ev.Size())
			screen.Sync()

		case *tcell.EventInterrupt:
			// redrawn at the top of the loop

		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				return
			case ev.Key() == tcell.KeyLeft:
				v.Pan(-panStep, 0)
			case ev.Key() == tcell.KeyRight:
				v.Pan(panStep, 0)
			case ev.Key() == tcell.KeyUp:
				v.Pan(0, -panStep)
			case ev.Key() == tcell.KeyDown:
				v.Pan(0, panStep)
			case ev.Rune() == '+' || ev.Rune() == '=':
				v.ZoomTo(v.Level() + 1)
			case ev.Rune() == '-':
				v.ZoomTo(v.Level() - 1)
			}

		case *tcell.EventMouse:
			x, y := ev.Position()
			switch {
			case ev.Buttons()&tcell.WheelUp != 0:
				v.Wheel(slip.WheelUp)
			case ev.Buttons()&tcell.WheelDown != 0:
				v.Wheel(slip.WheelDown)
			case ev.Buttons()&tcell.Button1 != 0 && !leftHeld:
				leftHeld = true
				v.PointerDown(slip.PointerEvent{Button: slip.ButtonLeft, X: x, Y: y})
				v.PointerMove(slip.PointerEvent{X: x, Y: y})
			case ev.Buttons()&tcell.Button1 != 0:
				v.PointerMove(slip.PointerEvent{X: x, Y: y})
			case leftHeld:
				leftHeld = false
				v.PointerUp(slip.PointerEvent{Button: slip.ButtonLeft, X: x, Y: y})
			}

		case nil:
			return
		}
	}
}

func (c *viewCmd) draw(screen tcell.Screen, v *slip.View) {
	screen.Clear()
	viewW, viewH := v.Size()

	for p := range v.Visible() {
		tileData, _ := v.Tile(p.Coord)
		style := tcell.StyleDefault.Background(tcell.PaletteColor(colorIndex(v.Level(), p, tileData)))

		for x := max(p.X, 0); x < min(p.X+c.src.tileW, viewW); x++ {
			for y := max(p.Y, 0); y < min(p.Y+c.src.tileH, viewH); y++ {
				screen.SetContent(x, y, ' ', nil, style)
			}
		}

		label := fmt.Sprintf("%d/%d/%d", v.Level(), p.Coord.Col, p.Coord.Row)
		for i, r := range label {
			x := p.X + 1 + i
			if x >= 0 && x < viewW && p.Y >= 0 && p.Y < viewH {
				screen.SetContent(x, p.Y, r, nil, style.Foreground(tcell.ColorWhite))
			}
		}
	}

	screen.Show()
}
