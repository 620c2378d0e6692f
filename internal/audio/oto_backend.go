//go:build !headless

package audio

import (
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend plays float32 samples through the default system output
// device via oto. It implements PlaybackBackend by queuing samples into
// an internal channel that oto's Read callback drains on its own
// goroutine.
type OtoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	src    *otoReader
}

// NewOtoBackend opens the default playback device at sampleRate, mono.
func NewOtoBackend(sampleRate int) (*OtoBackend, error) {
	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, err
	}
	<-ready

	src := &otoReader{pending: make(chan []float32, 64)}
	player := ctx.NewPlayer(src)
	player.Play()

	return &OtoBackend{ctx: ctx, player: player, src: src}, nil
}

// Write queues samples for playback; it does not block on the device.
func (b *OtoBackend) Write(samples []float32) error {
	cp := make([]float32, len(samples))
	copy(cp, samples)
	select {
	case b.src.pending <- cp:
	default:
		// Device-side queue is saturated; drop this block rather than
		// block the audio engine's worker goroutine.
	}
	return nil
}

// Close stops the player and releases the oto context.
func (b *OtoBackend) Close() error {
	return b.player.Close()
}

// otoReader adapts a channel of float32 blocks to oto's io.Reader
// callback, which wants interleaved little-endian bytes. Samples queued
// faster than the device drains them accumulate in carry; once starved
// it pads with silence rather than blocking the audio callback.
type otoReader struct {
	pending chan []float32
	carry   []float32
}

func (r *otoReader) Read(p []byte) (int, error) {
	want := len(p) / 4

	for len(r.carry) < want {
		select {
		case block := <-r.pending:
			r.carry = append(r.carry, block...)
		default:
			pad := make([]float32, want-len(r.carry))
			r.carry = append(r.carry, pad...)
		}
	}

	n := want * 4
	copy(p[:n], (*[1 << 30]byte)(unsafe.Pointer(&r.carry[0]))[:n])
	r.carry = r.carry[want:]
	return n, nil
}
