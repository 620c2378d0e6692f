// Package fsk implements the Bell 103 / V.21 frequency-shift-keyed
// modulator and demodulator: the always-present fallback chain used at
// 300 baud.
package fsk

import (
	"github.com/voiceband/softmodem/internal/dsp"
)

// Mode identifies which FSK frequency plan and side (originate/answer) is
// in use.
type Mode int

const (
	Bell103Originate Mode = iota // 1070 Hz space, 1270 Hz mark
	Bell103Answer                // 2025 Hz space, 2225 Hz mark
	V21Originate                 // 1180 Hz space, 980 Hz mark
	V21Answer                    // 1850 Hz space, 1650 Hz mark
)

// Frequencies returns (space, mark) in Hz for the mode.
func (m Mode) Frequencies() (space, mark float32) {
	switch m {
	case Bell103Originate:
		return 1070, 1270
	case Bell103Answer:
		return 2025, 2225
	case V21Originate:
		return 1180, 980
	case V21Answer:
		return 1850, 1650
	default:
		return 1070, 1270
	}
}

// CenterFreq is the midpoint between mark and space, used to center the
// demodulator's bandpass filter.
func (m Mode) CenterFreq() float32 {
	space, mark := m.Frequencies()
	return (space + mark) / 2
}

// Modulator converts a bit stream into audio tones by switching an
// oscillator between the mode's mark and space frequencies one bit period
// at a time.
type Modulator struct {
	mode          Mode
	osc           *dsp.NCO
	sampleRate    float32
	samplesPerBit int
}

// NewModulator builds a modulator for mode at baudRate baud, sampleRate Hz.
func NewModulator(mode Mode, baudRate, sampleRate float32) *Modulator {
	space, _ := mode.Frequencies()
	return &Modulator{
		mode:          mode,
		osc:           dsp.NewNCO(space, sampleRate, 1.0),
		sampleRate:    sampleRate,
		samplesPerBit: int(sampleRate/baudRate + 0.5),
	}
}

// Modulate renders bits (true = mark/1) to audio samples,
// samplesPerBit per bit.
func (m *Modulator) Modulate(bits []bool) []float32 {
	samples := make([]float32, 0, len(bits)*m.samplesPerBit)
	space, mark := m.mode.Frequencies()

	for _, bit := range bits {
		freq := space
		if bit {
			freq = mark
		}
		m.osc.SetFrequency(freq, m.sampleRate)

		for i := 0; i < m.samplesPerBit; i++ {
			samples = append(samples, m.osc.Next())
		}
	}
	return samples
}

// ModulateBytes packs data LSB-first into bits and modulates them.
func (m *Modulator) ModulateBytes(data []byte) []float32 {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			bits = append(bits, (b>>i)&1 == 1)
		}
	}
	return m.Modulate(bits)
}

// Demodulator recovers bits from audio tones: a bandpass filter isolates
// the mark/space band, then a dual-tone Goertzel detector decides one bit
// per samplesPerBit-sized block.
type Demodulator struct {
	mode          Mode
	bandpass      *dsp.Biquad
	detector      *dsp.DualTone
	samplesPerBit int
}

// NewDemodulator builds a demodulator for mode at baudRate baud,
// sampleRate Hz.
func NewDemodulator(mode Mode, baudRate, sampleRate float32) *Demodulator {
	space, mark := mode.Frequencies()
	samplesPerBit := int(sampleRate/baudRate + 0.5)
	bandwidth := absF32(mark-space) * 2

	return &Demodulator{
		mode:          mode,
		bandpass:      dsp.Bandpass(mode.CenterFreq(), bandwidth, sampleRate),
		detector:      dsp.NewDualTone(mark, space, sampleRate, samplesPerBit),
		samplesPerBit: samplesPerBit,
	}
}

// Demodulate processes samples and returns every bit recovered from a
// completed bit period within them.
func (d *Demodulator) Demodulate(samples []float32) []bool {
	var bits []bool
	for _, s := range samples {
		filtered := d.bandpass.Process(s)
		d.detector.ProcessSample(filtered)

		if d.detector.IsComplete() {
			bits = append(bits, d.detector.DetectBit())
			d.detector.Reset()
		}
	}
	return bits
}

// DemodulateBytes demodulates samples and reassembles complete bytes
// LSB-first, dropping any trailing incomplete byte.
func (d *Demodulator) DemodulateBytes(samples []float32) []byte {
	bits := d.Demodulate(samples)
	return packBytesLSB(bits)
}

func packBytesLSB(bits []bool) []byte {
	var out []byte
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			if bits[i+j] {
				b |= 1 << j
			}
		}
		out = append(out, b)
	}
	return out
}

func absF32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
