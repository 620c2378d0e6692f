//go:build !headless

package audio

import (
	"math"

	"github.com/gen2brain/malgo"
	"github.com/voiceband/softmodem/internal/dsp"
)

// MalgoBackend captures float32 samples from the default system input
// device via malgo's miniaudio bindings. It implements CaptureBackend by
// pulling the device's callback-delivered samples out of a ring buffer.
type MalgoBackend struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	ring   *dsp.Ring[float32]
}

// NewMalgoBackend opens the default capture device at sampleRate, mono.
func NewMalgoBackend(sampleRate int) (*MalgoBackend, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)

	ring := dsp.NewRing[float32](sampleRate) // ~1 second of headroom

	onRecv := func(_, in []byte, frameCount uint32) {
		samples := bytesToFloat32(in, int(frameCount))
		ring.Write(samples)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onRecv,
	})
	if err != nil {
		ctx.Free()
		return nil, err
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Free()
		return nil, err
	}

	return &MalgoBackend{ctx: ctx, device: device, ring: ring}, nil
}

// Read copies captured samples out of the device's ring buffer.
func (b *MalgoBackend) Read(buf []float32) (int, error) {
	return b.ring.Read(buf), nil
}

// Close stops and releases the capture device and its context.
func (b *MalgoBackend) Close() error {
	b.device.Uninit()
	b.ctx.Free()
	return nil
}

func bytesToFloat32(data []byte, frameCount int) []float32 {
	out := make([]float32, frameCount)
	for i := 0; i < frameCount && i*4+4 <= len(data); i++ {
		bits := uint32(data[i*4]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
