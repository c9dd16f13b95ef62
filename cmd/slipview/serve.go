package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-slipview/slip"
	"github.com/gliderlabs/ssh"
	"github.com/google/subcommands"
)

type serveCmd struct {
	src     sourceFlags
	addr    string
	hostKey string
	level   int
}

func (c *serveCmd) Name() string     { return "serve" }
func (c *serveCmd) Synopsis() string { return "serve the map viewer over SSH" }
func (c *serveCmd) Usage() string {
	return "slipview serve [-addr <host:port>] [-hostkey <path>] [-i <path>]\n" +
		"Connect with: ssh -t <host> -p <port>\n"
}
func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f, 16, 8)
	f.StringVar(&c.addr, "addr", ":2222", "Listen address")
	f.StringVar(&c.hostKey, "hostkey", "", "SSH host key file")
	f.IntVar(&c.level, "level", 2, "Initial zoom level")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	server := &ssh.Server{
		Addr:    c.addr,
		Handler: c.handleSession,
	}
	if c.hostKey != "" {
		if err := server.SetOption(ssh.HostKeyFile(c.hostKey)); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	log.Printf("slipview: ssh server listening on %s", c.addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// session input actions decoded from raw terminal bytes.
type action int

const (
	actQuit action = iota
	actPanLeft
	actPanRight
	actPanUp
	actPanDown
	actZoomIn
	actZoomOut
)

func (c *serveCmd) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	// Each session gets its own source: the active level is per-viewer
	// state.
	src, err := c.src.open()
	if err != nil {
		fmt.Fprintln(sess, err)
		return
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	redraw := make(chan struct{}, 1)
	requestRedraw := func() {
		select {
		case redraw <- struct{}{}:
		default: // a repaint is already queued
		}
	}

	v, err := slip.New(src, c.level, slip.WithRedraw(requestRedraw))
	if err != nil {
		fmt.Fprintln(sess, err)
		return
	}
	v.Resize(ptyReq.Window.Width, ptyReq.Window.Height)

	log.Printf("slipview: viewer connected: %s", sess.User())
	defer log.Printf("slipview: viewer disconnected: %s", sess.User())

	actions := make(chan action, 16)
	go readActions(sess, actions)

	fmt.Fprint(sess, "\x1b[2J\x1b[?25l") // clear, hide cursor
	defer fmt.Fprint(sess, "\x1b[0m\x1b[?25h\x1b[2J\x1b[H")

	panStep := c.src.tileW / 2
	renderFrame(sess, v, c.src.tileW, c.src.tileH)
	for {
		select {
		case <-sess.Context().Done():
			return

		case win, ok := <-winCh:
			if !ok {
				return
			}
			v.Resize(win.Width, win.Height)

		case <-redraw:
			renderFrame(sess, v, c.src.tileW, c.src.tileH)

		case act, ok := <-actions:
			if !ok {
				return
			}
			switch act {
			case actQuit:
				return
			case actPanLeft:
				v.Pan(-panStep, 0)
			case actPanRight:
				v.Pan(panStep, 0)
			case actPanUp:
				v.Pan(0, -panStep)
			case actPanDown:
				v.Pan(0, panStep)
			case actZoomIn:
				v.ZoomTo(v.Level() + 1)
			case actZoomOut:
				v.ZoomTo(v.Level() - 1)
			}
		}
	}
}

// readActions decodes session input into viewer actions. Arrow keys and
// the vi movement keys pan, +/- zoom, q or Ctrl-C quits.
func readActions(r io.Reader, actions chan<- action) {
	defer close(actions)

	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		for i := 0; i < n; i++ {
			switch buf[i] {
			case 'q', 0x03, 0x04:
				actions <- actQuit
				return
			case 'h':
				actions <- actPanLeft
			case 'l':
				actions <- actPanRight
			case 'k':
				actions <- actPanUp
			case 'j':
				actions <- actPanDown
			case '+', '=':
				actions <- actZoomIn
			case '-':
				actions <- actZoomOut
			case 0x1b: // CSI arrow sequences
				if i+2 < n && buf[i+1] == '[' {
					switch buf[i+2] {
					case 'A':
						actions <- actPanUp
					case 'B':
						actions <- actPanDown
					case 'C':
						actions <- actPanRight
					case 'D':
						actions <- actPanLeft
					}
					i += 2
				}
			}
		}
	}
}
