// Command atterm is a minimal interactive terminal client for talking to
// a softmodem pty: it puts stdin into raw mode, relays keystrokes to the
// modem and the modem's responses back to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

func main() {
	ptyPath := flag.String("pty", "", "path to the softmodem pty's slave device (e.g. /dev/pts/4)")
	flag.Parse()

	if *ptyPath == "" {
		fmt.Fprintln(os.Stderr, "usage: atterm -pty /dev/pts/N")
		os.Exit(1)
	}

	line, err := os.OpenFile(*ptyPath, os.O_RDWR, 0)
	if err != nil {
		log.Fatalf("atterm: open %s: %v", *ptyPath, err)
	}
	defer line.Close()

	host := newTerminalHost(line)
	host.Start()
	defer host.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}

// terminalHost puts stdin into raw mode and pumps bytes between the
// local terminal and the modem line in both directions, restoring the
// terminal on Stop.
type terminalHost struct {
	line    io.ReadWriteCloser
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd       int
	oldState *term.State
}

func newTerminalHost(line io.ReadWriteCloser) *terminalHost {
	return &terminalHost{
		line:   line,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		fd:     int(os.Stdin.Fd()),
	}
}

// Start switches stdin to raw mode and launches the two relay goroutines.
// CR from the local terminal is translated to CRLF for the modem's line
// parser; bytes the modem sends back are written to stdout unmodified.
func (h *terminalHost) Start() {
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atterm: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldState = oldState

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' {
					h.line.Write([]byte{'\r', '\n'})
				} else {
					h.line.Write([]byte{b})
				}
			}
			if err != nil {
				return
			}
			select {
			case <-h.stopCh:
				return
			default:
			}
		}
	}()

	go func() {
		defer wg.Done()
		buf := make([]byte, 256)
		for {
			n, err := h.line.Read(buf)
			if n > 0 {
				os.Stdout.Write(buf[:n])
			}
			if err != nil {
				return
			}
			select {
			case <-h.stopCh:
				return
			default:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(h.done)
	}()
}

// Stop restores the terminal to its prior state and signals the relay
// goroutines to wind down.
func (h *terminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
		if h.oldState != nil {
			term.Restore(h.fd, h.oldState)
		}
		h.line.Close()
	})
}
