// Command softmodem runs the Hayes command-set modem emulator: it opens a
// pseudoterminal a host program can dial through, and drives the FSK/QAM
// DSP chain over a real or simulated audio device.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voiceband/softmodem/internal/atcmd"
	"github.com/voiceband/softmodem/internal/audio"
	"github.com/voiceband/softmodem/internal/modem"
	"github.com/voiceband/softmodem/internal/transport"
)

const audioTick = 20 * time.Millisecond

func main() {
	headless := flag.Bool("headless", false, "disable real audio I/O; drive the DSP chain through its internal loopback ring")
	flag.Parse()

	playback, capture := newBackends(*headless, audio.DefaultConfig().SampleRate)
	engine := audio.NewEngine(audio.DefaultConfig(), playback, capture)
	engine.Start()
	defer engine.Stop()

	sup := modem.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Only one host can hold the line at a time. When a session ends
	// (the client closed its side, or the connection dropped), reset the
	// supervisor and open a fresh pty for the next caller.
	for ctx.Err() == nil {
		if err := runSession(ctx, sup, engine); err != nil && ctx.Err() == nil {
			log.Printf("softmodem: session ended: %v", err)
		}
		sup.Reset()
	}
}

// runSession opens a new pty and serves exactly one host connection on it
// until the client disconnects, the line drops, or ctx is canceled.
func runSession(ctx context.Context, sup *modem.Supervisor, engine *audio.Engine) error {
	pty, err := transport.OpenPty()
	if err != nil {
		return fmt.Errorf("open pty: %w", err)
	}
	defer pty.Close()
	fmt.Printf("softmodem: connect a terminal program to %s\n", pty.Name())

	parser := atcmd.NewParser()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pumpHost(gctx, sup, parser, pty) })
	g.Go(func() error { return pumpAudio(gctx, sup, engine, pty) })
	return g.Wait()
}

// pumpHost reads bytes from the host transport, routing them to the AT
// command parser in Command state or to the connected-line escape
// detector otherwise, and writes back any resulting responses.
func pumpHost(ctx context.Context, sup *modem.Supervisor, parser *atcmd.Parser, tp transport.Transport) error {
	byteCh := make(chan byte, 256)
	errCh := make(chan error, 1)

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := tp.Read(buf)
			if n > 0 {
				byteCh <- buf[0]
			}
			if err != nil {
				errCh <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case b := <-byteCh:
			if sup.State() == modem.Connected {
				if responses, escaped := sup.ProcessDataByte(b); escaped {
					writeResponses(tp, responses)
				}
				continue
			}
			for _, cmd := range parser.Feed(b) {
				writeResponses(tp, sup.ProcessCommand(cmd))
			}
		}
	}
}

// pumpAudio drains the supervisor's TX queue into the audio engine on a
// fixed tick, requests a capture block each tick, and feeds whatever the
// engine hands back through the line demodulator and on to the host.
func pumpAudio(ctx context.Context, sup *modem.Supervisor, engine *audio.Engine, tp transport.Transport) error {
	ticker := time.NewTicker(audioTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if samples := sup.ProcessTXQueue(); len(samples) > 0 {
				engine.QueuePlayback(samples)
			}
			engine.RequestCapture()

			for _, ev := range engine.PollEvents() {
				switch ev.Kind {
				case audio.EventCapturedSamples:
					if decoded := sup.ProcessRXSamples(ev.Samples); len(decoded) > 0 {
						if _, err := tp.Write(decoded); err != nil {
							return err
						}
					}
				case audio.EventError:
					log.Printf("softmodem: audio: %s", ev.Err)
				}
			}
		}
	}
}

func writeResponses(tp transport.Transport, responses []atcmd.Response) {
	for _, r := range responses {
		if _, err := tp.Write([]byte(r.String())); err != nil {
			log.Printf("softmodem: write: %v", err)
			return
		}
	}
}
