// Package audio implements the modem's audio engine: a command/event
// worker goroutine that moves 32-bit float samples between the DSP
// chain and a device backend, queued through bounded channels.
package audio

import (
	"sync"
	"sync/atomic"

	"github.com/voiceband/softmodem/internal/dsp"
)

// Config describes the host audio format. The modem always drives it at
// dsp.SampleRate, mono, 20 ms nominal buffers.
type Config struct {
	SampleRate       int
	BitsPerSample    int
	Channels         int
	BufferDurationMs int
}

// DefaultConfig matches the modem's fixed 8 kHz mono line format.
func DefaultConfig() Config {
	return Config{
		SampleRate:       dsp.SampleRate,
		BitsPerSample:    16,
		Channels:         1,
		BufferDurationMs: 20,
	}
}

func (c Config) framesPerBuffer() int {
	return c.SampleRate * c.BufferDurationMs / 1000
}

// PlaybackBackend renders samples to a real output device.
type PlaybackBackend interface {
	Write(samples []float32) error
	Close() error
}

// CaptureBackend reads samples from a real input device.
type CaptureBackend interface {
	Read(buf []float32) (int, error)
	Close() error
}

// EventKind identifies which Event variant a value holds.
type EventKind int

const (
	EventCapturedSamples EventKind = iota
	EventPlaybackReady
	EventError
)

// Event is emitted by the engine's worker for the caller to poll.
type Event struct {
	Kind    EventKind
	Samples []float32
	Err     string
}

type commandKind int

const (
	cmdStop commandKind = iota
	cmdSendSamples
	cmdCapture
)

type command struct {
	kind    commandKind
	samples []float32
}

// Engine is a small, lock-free, command-driven audio engine. With no
// backends attached it loops playback samples straight back around a
// ring buffer for capture, a simulation layer useful for tests and for
// exercising the modem DSP chain without real hardware; attach a real
// PlaybackBackend/CaptureBackend to drive actual audio I/O.
type Engine struct {
	config Config

	running atomic.Bool
	cmdCh   chan command
	eventCh chan Event
	wg      sync.WaitGroup

	playback     PlaybackBackend
	capture      CaptureBackend
	playbackRing *dsp.Ring[float32]
}

// NewEngine builds an engine for cfg. playback and capture may be nil, in
// which case the engine falls back to its internal loopback ring.
func NewEngine(cfg Config, playback PlaybackBackend, capture CaptureBackend) *Engine {
	capacity := cfg.framesPerBuffer() * cfg.Channels * 4
	if capacity < 1 {
		capacity = 1
	}

	return &Engine{
		config:       cfg,
		cmdCh:        make(chan command, 64),
		eventCh:      make(chan Event, 256),
		playback:     playback,
		capture:      capture,
		playbackRing: dsp.NewRing[float32](capacity + 1),
	}
}

// Start launches the worker goroutine. Calling Start twice is a no-op.
func (e *Engine) Start() {
	if e.running.Swap(true) {
		return
	}
	e.wg.Add(1)
	go e.run()
}

// Stop signals the worker to exit and waits for it to finish.
func (e *Engine) Stop() {
	if !e.running.Load() {
		return
	}
	e.running.Store(false)
	e.cmdCh <- command{kind: cmdStop}
	e.wg.Wait()

	if e.playback != nil {
		e.playback.Close()
	}
	if e.capture != nil {
		e.capture.Close()
	}
}

// QueuePlayback queues a block of samples for playback.
func (e *Engine) QueuePlayback(samples []float32) {
	e.cmdCh <- command{kind: cmdSendSamples, samples: samples}
}

// RequestCapture requests one nominal buffer's worth of captured samples;
// the result arrives as an EventCapturedSamples event.
func (e *Engine) RequestCapture() {
	e.cmdCh <- command{kind: cmdCapture}
}

// PollEvents drains every event queued so far without blocking.
func (e *Engine) PollEvents() []Event {
	var events []Event
	for {
		select {
		case ev := <-e.eventCh:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func (e *Engine) emit(ev Event) {
	select {
	case e.eventCh <- ev:
	default:
		// Event queue is full; the caller isn't polling fast enough. Drop
		// rather than block the worker.
	}
}

func (e *Engine) run() {
	defer e.wg.Done()

	for cmd := range e.cmdCh {
		switch cmd.kind {
		case cmdStop:
			return

		case cmdSendSamples:
			if e.playback != nil {
				if err := e.playback.Write(cmd.samples); err != nil {
					e.emit(Event{Kind: EventError, Err: err.Error()})
					continue
				}
				e.emit(Event{Kind: EventPlaybackReady})
				continue
			}

			written := e.playbackRing.Write(cmd.samples)
			if written < len(cmd.samples) {
				e.emit(Event{Kind: EventError, Err: "playback ring buffer overflow"})
			} else {
				e.emit(Event{Kind: EventPlaybackReady})
			}

		case cmdCapture:
			frames := e.config.framesPerBuffer() * e.config.Channels
			if frames < 1 {
				frames = 1
			}
			buf := make([]float32, frames)

			var n int
			if e.capture != nil {
				var err error
				n, err = e.capture.Read(buf)
				if err != nil {
					e.emit(Event{Kind: EventError, Err: err.Error()})
					continue
				}
			} else {
				n = e.playbackRing.Read(buf)
			}
			e.emit(Event{Kind: EventCapturedSamples, Samples: buf[:n]})
		}
	}
}
