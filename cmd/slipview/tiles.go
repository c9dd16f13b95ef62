package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-slipview/slip"
	"github.com/google/subcommands"
)

type tilesCmd struct {
	src    sourceFlags
	level  int
	width  int
	height int
	dx, dy int
}

func (c *tilesCmd) Name() string     { return "tiles" }
func (c *tilesCmd) Synopsis() string { return "print the draw list for a viewport" }
func (c *tilesCmd) Usage() string {
	return "slipview tiles [-i <path>] [-level <n>] [-w <px> -h <px>] [-dx <px> -dy <px>]\n"
}
func (c *tilesCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f, 256, 256)
	f.IntVar(&c.level, "level", 2, "Zoom level")
	f.IntVar(&c.width, "w", 800, "Viewport width in pixels")
	f.IntVar(&c.height, "h", 600, "Viewport height in pixels")
	f.IntVar(&c.dx, "dx", 0, "Pan delta X applied before enumeration")
	f.IntVar(&c.dy, "dy", 0, "Pan delta Y applied before enumeration")
}

func (c *tilesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	src, err := c.src.open()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	v, err := slip.New(src, c.level)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	v.Resize(c.width, c.height)
	v.Pan(c.dx, c.dy)

	anchor := v.Anchor()
	fmt.Printf("level %d, key tile %d/%d at (%d, %d)\n",
		v.Level(), anchor.Col, anchor.Row, anchor.OffsetX, anchor.OffsetY)

	err = v.VisitVisible(func(p slip.Placement) error {
		fmt.Printf("%d/%d/%d at (%d, %d)\n", v.Level(), p.Coord.Col, p.Coord.Row, p.X, p.Y)
		return nil
	})
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
