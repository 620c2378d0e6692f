package audio

import "github.com/voiceband/softmodem/internal/dsp"

// LoopbackBackend implements both PlaybackBackend and CaptureBackend over
// an in-memory ring, so a test or a host transport without a real audio
// device can drive the full command/event path without the engine's
// built-in simulation ring.
type LoopbackBackend struct {
	ring *dsp.Ring[float32]
}

// NewLoopbackBackend allocates a loopback backend with room for capacity
// float32 samples.
func NewLoopbackBackend(capacity int) *LoopbackBackend {
	return &LoopbackBackend{ring: dsp.NewRing[float32](capacity + 1)}
}

// Write appends samples to the loopback ring.
func (l *LoopbackBackend) Write(samples []float32) error {
	l.ring.Write(samples)
	return nil
}

// Read copies samples out of the loopback ring.
func (l *LoopbackBackend) Read(buf []float32) (int, error) {
	return l.ring.Read(buf), nil
}

// Close is a no-op; the loopback backend owns no external resource.
func (l *LoopbackBackend) Close() error { return nil }
