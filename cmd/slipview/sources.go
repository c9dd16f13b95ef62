package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/eak1mov/go-slipview/source"
	"github.com/eak1mov/go-slipview/source/mb"
	"github.com/eak1mov/go-slipview/source/xyz"
	"github.com/eak1mov/go-slipview/tile"
)

// tileReader is the synchronous read surface all concrete sources share,
// used by commands that cannot wait for asynchronous cache fills.
type tileReader interface {
	tile.Source
	ReadTile(level int, c tile.Coord) ([]byte, error)
}

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	if filePath == "" {
		return "demo"
	}
	if strings.HasSuffix(filePath, ".mbtiles") {
		return "mbtiles"
	}
	return "xyz"
}

// sourceFlags are the tile source options every subcommand shares.
type sourceFlags struct {
	inputPath   string
	inputFormat string
	maxLevel    int
	tileW       int
	tileH       int
}

// register binds the shared source flags. Commands rendering to terminal
// cells pass small default tile dimensions.
func (s *sourceFlags) register(f *flag.FlagSet, tileW, tileH int) {
	f.StringVar(&s.inputPath, "i", "", "Input path (mbtiles file or xyz pattern); empty for demo tiles")
	f.StringVar(&s.inputFormat, "if", "", "Input format (mbtiles, xyz, demo)")
	f.IntVar(&s.maxLevel, "maxlevel", 6, "Maximum zoom level for xyz and demo sources")
	f.IntVar(&s.tileW, "tilew", tileW, "Tile width in pixels")
	f.IntVar(&s.tileH, "tileh", tileH, "Tile height in pixels")
}

func (s *sourceFlags) open() (tileReader, error) {
	switch format := deduceFormat(s.inputFormat, s.inputPath); format {
	case "demo":
		return source.NewDemo(s.tileW, s.tileH), nil
	case "mbtiles":
		return mb.NewSource(s.inputPath, mb.WithTileSize(s.tileW, s.tileH))
	case "xyz":
		levels := make([]int, s.maxLevel+1)
		for i := range levels {
			levels[i] = i
		}
		return xyz.New(s.inputPath, xyz.Config{
			Levels:     levels,
			TileWidth:  s.tileW,
			TileHeight: s.tileH,
			WrapX:      true,
		})
	default:
		return nil, fmt.Errorf("invalid tile source format: %q", format)
	}
}
