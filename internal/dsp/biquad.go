package dsp

import "math"

// Biquad is a second-order IIR filter in Direct Form II, built from the
// standard RBJ cookbook formulas.
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32
	z1, z2     float32
}

// Lowpass builds a lowpass biquad with the given cutoff, Q and sample rate.
func Lowpass(cutoff, q, sampleRate float32) *Biquad {
	omega := freqToOmega(cutoff, sampleRate)
	sinOmega, cosOmega := sincos(omega)
	alpha := sinOmega / (2 * q)

	b0 := (1 - cosOmega) / 2
	b1 := 1 - cosOmega
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cosOmega
	a2 := 1 - alpha

	return &Biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// Bandpass builds a constant 0 dB peak-gain bandpass biquad centered on
// center with the given bandwidth (both in Hz) at sampleRate.
func Bandpass(center, bandwidth, sampleRate float32) *Biquad {
	omega := freqToOmega(center, sampleRate)
	bw := freqToOmega(bandwidth, sampleRate)

	alpha := float32(math.Sin(float64(bw / 2)))
	cosOmega := float32(math.Cos(float64(omega)))

	b0 := alpha
	b1 := float32(0)
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosOmega
	a2 := 1 - alpha

	return &Biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// Process filters a single sample, Direct Form II.
func (f *Biquad) Process(x float32) float32 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// ProcessBlock filters in into out; the two slices must be the same length.
func (f *Biquad) ProcessBlock(in, out []float32) {
	for i, x := range in {
		out[i] = f.Process(x)
	}
}

// Reset zeroes the delay elements; coefficients are preserved.
func (f *Biquad) Reset() {
	f.z1, f.z2 = 0, 0
}

func sincos(x float32) (sin, cos float32) {
	s, c := math.Sincos(float64(x))
	return float32(s), float32(c)
}
