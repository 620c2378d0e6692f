// Package dsp implements the leaf signal-processing blocks shared by the
// FSK and QAM/DPSK modem chains: oscillators, filters, tone detection,
// the V.22bis scrambler, constellation mapping, adaptive equalization and
// carrier/timing recovery.
//
// Every block here owns its own scalar state exclusively and performs no
// I/O; callers feed samples in and read results out one call at a time.
// State is float32 throughout, matching the 32-bit float sample format
// the host audio boundary uses.
package dsp

import "math"

// SampleRate is the fixed host audio rate. DSP blocks take a sample rate
// parameter at construction so they stay testable at other rates, but the
// modem always drives them at this value.
const SampleRate = 8000.0

// TwoPi is used throughout for phase wrapping.
const TwoPi = 2 * math.Pi

// freqToOmega converts a frequency in Hz to a per-sample phase increment.
func freqToOmega(freq, sampleRate float32) float32 {
	return TwoPi32 * freq / sampleRate
}

// TwoPi32 is TwoPi in float32, used on the sample-rate hot path.
const TwoPi32 = float32(TwoPi)
