package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-slipview/slip"
	"github.com/eak1mov/go-slipview/source/mb"
	"github.com/eak1mov/go-slipview/tile"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total, progressbar.OptionShowIts(), progressbar.OptionShowCount())
}

type snapshotCmd struct {
	src        sourceFlags
	outputPath string
	width      int
	height     int
	centerX    float64
	centerY    float64
	minLevel   int
	maxLevel   int
}

func (c *snapshotCmd) Name() string { return "snapshot" }
func (c *snapshotCmd) Synopsis() string {
	return "export the tiles covering a viewport to an MBTiles file"
}
func (c *snapshotCmd) Usage() string {
	return "slipview snapshot [-i <path>] -o <path> [-cx <f> -cy <f>] [-minlevel <n> -maxlevel <n>]\n"
}
func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f, 256, 256)
	f.StringVar(&c.outputPath, "o", "", "Output MBTiles path")
	f.IntVar(&c.width, "w", 800, "Viewport width in pixels")
	f.IntVar(&c.height, "h", 600, "Viewport height in pixels")
	f.Float64Var(&c.centerX, "cx", 0.5, "View center X as a map fraction")
	f.Float64Var(&c.centerY, "cy", 0.5, "View center Y as a map fraction")
	f.IntVar(&c.minLevel, "minlevel", 0, "First level to snapshot")
	f.IntVar(&c.maxLevel, "maxlevel", 4, "Last level to snapshot")
}

func (c *snapshotCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.outputPath == "" {
		log.Println("output path required (-o)")
		return subcommands.ExitFailure
	}

	src, err := c.src.open()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	v, err := slip.New(src, c.minLevel)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	v.Resize(c.width, c.height)

	// Collect the viewport coverage per level before touching the output
	// file, so a bad level range fails without a half-written snapshot.
	center := slip.Point{X: c.centerX, Y: c.centerY}
	coverage := make(map[int][]tile.Coord)
	total := 0
	for level := c.minLevel; level <= c.maxLevel; level++ {
		if !v.ZoomToPosition(level, center) {
			log.Printf("level %d rejected by tile source, skipping", level)
			continue
		}
		seen := make(map[tile.Coord]bool)
		for p := range v.Visible() {
			if !seen[p.Coord] {
				seen[p.Coord] = true
				coverage[level] = append(coverage[level], p.Coord)
				total++
			}
		}
	}

	writer, err := mb.NewWriter(c.outputPath, mb.WithMetadata(map[string]string{
		"name":    "slipview snapshot",
		"minzoom": fmt.Sprintf("%d", c.minLevel),
		"maxzoom": fmt.Sprintf("%d", c.maxLevel),
	}))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer writer.Close()

	bar := newProgressBar(total)
	for level := c.minLevel; level <= c.maxLevel; level++ {
		for _, coord := range coverage[level] {
			tileData, err := src.ReadTile(level, coord)
			if err != nil {
				log.Println(err)
				return subcommands.ExitFailure
			}
			if len(tileData) == 0 {
				bar.Add(1)
				continue
			}
			if err := writer.WriteTile(level, coord, tileData); err != nil {
				log.Println(err)
				return subcommands.ExitFailure
			}
			bar.Add(1)
		}
	}
	bar.Finish()
	fmt.Println()

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
