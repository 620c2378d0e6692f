package dsp

import "math"

// NCO is a phase-accumulating sine wave generator: a numerically
// controlled oscillator. Phase is wrapped to [0, 2*pi) on every sample so
// error never accumulates beyond a single cycle.
type NCO struct {
	phase          float32
	phaseIncrement float32
	Amplitude      float32
}

// NewNCO creates an oscillator at the given frequency, sample rate and
// amplitude.
func NewNCO(freq, sampleRate, amplitude float32) *NCO {
	return &NCO{
		phaseIncrement: freqToOmega(freq, sampleRate),
		Amplitude:      amplitude,
	}
}

// SetFrequency retunes the oscillator without resetting its phase.
func (o *NCO) SetFrequency(freq, sampleRate float32) {
	o.phaseIncrement = freqToOmega(freq, sampleRate)
}

// Next returns the next sample and advances the phase accumulator.
func (o *NCO) Next() float32 {
	sample := o.Amplitude * float32(math.Sin(float64(o.phase)))
	o.phase += o.phaseIncrement
	if o.phase >= TwoPi32 {
		o.phase -= TwoPi32
	}
	return sample
}

// NextQuadrature returns (sin, cos) of the current phase before advancing,
// giving a matched quadrature carrier pair from a single phase
// accumulator — used by the QAM modulator's I/Q mix.
func (o *NCO) NextQuadrature() (sinV, cosV float32) {
	s, c := math.Sincos(float64(o.phase))
	sinV = o.Amplitude * float32(s)
	cosV = o.Amplitude * float32(c)
	o.phase += o.phaseIncrement
	if o.phase >= TwoPi32 {
		o.phase -= TwoPi32
	}
	return sinV, cosV
}

// Generate fills out with consecutive samples.
func (o *NCO) Generate(out []float32) {
	for i := range out {
		out[i] = o.Next()
	}
}

// Phase returns the current phase, for tests asserting the wrap invariant.
func (o *NCO) Phase() float32 {
	return o.phase
}

// Reset zeroes the phase accumulator without touching frequency or
// amplitude.
func (o *NCO) Reset() {
	o.phase = 0
}

// dtmfRows and dtmfCols are the DTMF frequency matrix (ITU-T Q.23).
var dtmfRows = [4]float32{697, 770, 852, 941}
var dtmfCols = [4]float32{1209, 1336, 1477, 1633}

// dtmfDigit maps a dial digit to its (row, col) index in the DTMF matrix.
var dtmfDigit = map[rune][2]int{
	'1': {0, 0}, '2': {0, 1}, '3': {0, 2}, 'A': {0, 3},
	'4': {1, 0}, '5': {1, 1}, '6': {1, 2}, 'B': {1, 3},
	'7': {2, 0}, '8': {2, 1}, '9': {2, 2}, 'C': {2, 3},
	'*': {3, 0}, '0': {3, 1}, '#': {3, 2}, 'D': {3, 3},
}

// DTMFGenerator produces dual-tone multi-frequency dialing tones.
type DTMFGenerator struct {
	rowOsc, colOsc *NCO
	sampleRate     float32
}

// NewDTMFGenerator creates a DTMF tone generator at the given sample rate.
func NewDTMFGenerator(sampleRate float32) *DTMFGenerator {
	return &DTMFGenerator{
		rowOsc:     NewNCO(dtmfRows[0], sampleRate, 0.5),
		colOsc:     NewNCO(dtmfCols[0], sampleRate, 0.5),
		sampleRate: sampleRate,
	}
}

// GenerateDigit renders durationSamples of DTMF tone for digit. Digits
// outside the DTMF matrix (e.g. the 'T'/'P' dial-mode prefix already
// stripped upstream) render as silence.
func (g *DTMFGenerator) GenerateDigit(digit rune, durationSamples int) []float32 {
	samples := make([]float32, durationSamples)

	idx, ok := dtmfDigit[digit]
	if !ok {
		return samples
	}

	g.rowOsc.SetFrequency(dtmfRows[idx[0]], g.sampleRate)
	g.rowOsc.Reset()
	g.colOsc.SetFrequency(dtmfCols[idx[1]], g.sampleRate)
	g.colOsc.Reset()

	for i := range samples {
		samples[i] = g.rowOsc.Next() + g.colOsc.Next()
	}
	return samples
}
