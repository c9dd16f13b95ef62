package xyz_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eak1mov/go-slipview/source/xyz"
	"github.com/eak1mov/go-slipview/tile"
	"github.com/google/go-cmp/cmp"
)

func writeTiles(t *testing.T, rootDir string, tiles map[tile.Coord][]byte, level int) {
	t.Helper()
	for coord, data := range tiles {
		p := filepath.Join(rootDir,
			strconv.Itoa(level), strconv.Itoa(coord.Col), strconv.Itoa(coord.Row)+".png")
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSourceReadTile(t *testing.T) {
	rootDir := t.TempDir()
	pattern := filepath.Join(rootDir, "{z}", "{x}", "{y}.png")

	tiles := map[tile.Coord][]byte{
		{Col: 0, Row: 0}: []byte("tile00"),
		{Col: 1, Row: 0}: []byte("tile10"),
		{Col: 1, Row: 1}: []byte("tile11"),
	}
	writeTiles(t, rootDir, tiles, 1)

	src, err := xyz.New(pattern, xyz.Config{Levels: []int{0, 1, 2}, WrapX: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for coord, want := range tiles {
		got, err := src.ReadTile(1, coord)
		if err != nil {
			t.Errorf("ReadTile(%v) failed: %v", coord, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ReadTile(%v) mismatch (-want+got):\n%v", coord, diff)
		}
	}

	missing, err := src.ReadTile(1, tile.Coord{Col: 0, Row: 1})
	if err != nil {
		t.Errorf("ReadTile(missing tile) failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("ReadTile(missing tile) = %d bytes, want empty", len(missing))
	}
}

func TestSourceTileIsAsync(t *testing.T) {
	rootDir := t.TempDir()
	pattern := filepath.Join(rootDir, "{z}", "{x}", "{y}.png")
	writeTiles(t, rootDir, map[tile.Coord][]byte{{Col: 1, Row: 1}: []byte("t")}, 1)

	src, err := xyz.New(pattern, xyz.Config{Levels: []int{1}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !src.UseLevel(1) {
		t.Fatal("UseLevel(1) rejected")
	}

	var notified atomic.Bool
	src.SetNotify(func() { notified.Store(true) })

	coord := tile.Coord{Col: 1, Row: 1}
	if data, _ := src.Tile(coord); len(data) != 0 {
		t.Fatalf("cold Tile returned data: %q", data)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !notified.Load() {
		if time.Now().After(deadline) {
			t.Fatal("notify callback never fired")
		}
		time.Sleep(time.Millisecond)
	}
	data, err := src.Tile(coord)
	if err != nil {
		t.Fatalf("Tile failed: %v", err)
	}
	if diff := cmp.Diff("t", string(data)); diff != "" {
		t.Errorf("tile data mismatch (-want+got):\n%v", diff)
	}
}

func TestSourcePrefetch(t *testing.T) {
	rootDir := t.TempDir()
	pattern := filepath.Join(rootDir, "{z}", "{x}", "{y}.png")

	tiles := map[tile.Coord][]byte{
		{Col: 0, Row: 0}: []byte("a"),
		{Col: 0, Row: 1}: []byte("b"),
		{Col: 1, Row: 0}: []byte("c"),
		{Col: 1, Row: 1}: []byte("d"),
	}
	writeTiles(t, rootDir, tiles, 1)

	src, err := xyz.New(pattern, xyz.Config{Levels: []int{1}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	coords := []tile.Coord{{Col: 0, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: 0}, {Col: 1, Row: 1}}
	if err := src.Prefetch(context.Background(), 1, coords); err != nil {
		t.Fatalf("Prefetch failed: %v", err)
	}

	for coord, want := range tiles {
		data, err := src.Tile(coord)
		if err != nil {
			t.Errorf("Tile(%v) failed: %v", coord, err)
			continue
		}
		if diff := cmp.Diff(string(want), string(data)); diff != "" {
			t.Errorf("Tile(%v) mismatch (-want+got):\n%v", coord, diff)
		}
	}
}

func TestSourceRejectsUnknownLevel(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "{z}", "{x}", "{y}.png")
	src, err := xyz.New(pattern, xyz.Config{Levels: []int{2, 3}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if src.UseLevel(5) {
		t.Error("UseLevel(5) accepted a level outside the configured set")
	}
	if !src.UseLevel(3) {
		t.Error("UseLevel(3) rejected a configured level")
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := xyz.New("/tiles/{z}/{x}.png", xyz.Config{Levels: []int{0}})
	if err == nil {
		t.Error("New accepted a pattern without {y}")
	}
}
