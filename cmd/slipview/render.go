package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/eak1mov/go-slipview/slip"
)

const placeholderColor = 236 // dark gray for tiles not yet loaded

// colorIndex derives a stable 256-palette color from a tile's identity and
// data, so missing tiles look distinct from loaded ones.
func colorIndex(level int, p slip.Placement, tileData []byte) int {
	if len(tileData) == 0 {
		return placeholderColor
	}
	hash := uint32(level) * 2654435761
	hash ^= uint32(p.Coord.Col) * 40503
	hash ^= uint32(p.Coord.Row) * 65537
	for _, b := range tileData[:min(len(tileData), 16)] {
		hash = hash*31 + uint32(b)
	}
	return 16 + int(hash%216)
}

// renderFrame paints the draw list as ANSI colored cells, one viewport
// cell per map pixel, with a status line at the bottom.
func renderFrame(w io.Writer, v *slip.View, tileW, tileH int) {
	width, height := v.Size()
	if width <= 0 || height <= 0 {
		return
	}

	cells := make([]int, width*height)
	for i := range cells {
		cells[i] = placeholderColor
	}
	for p := range v.Visible() {
		tileData, _ := v.Tile(p.Coord)
		color := colorIndex(v.Level(), p, tileData)
		for y := max(p.Y, 0); y < min(p.Y+tileH, height); y++ {
			for x := max(p.X, 0); x < min(p.X+tileW, width); x++ {
				cells[y*width+x] = color
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("\x1b[H")
	for y := 0; y < height-1; y++ {
		last := -1
		for x := 0; x < width; x++ {
			if color := cells[y*width+x]; color != last {
				fmt.Fprintf(&sb, "\x1b[48;5;%dm", color)
				last = color
			}
			sb.WriteByte(' ')
		}
		sb.WriteString("\x1b[0m\r\n")
	}

	anchor := v.Anchor()
	status := fmt.Sprintf(" level %d  key %d/%d  arrows/hjkl pan  +/- zoom  q quit",
		v.Level(), anchor.Col, anchor.Row)
	if len(status) > width {
		status = status[:width]
	}
	fmt.Fprintf(&sb, "\x1b[7m%-*s\x1b[0m", width, status)

	io.WriteString(w, sb.String())
}
