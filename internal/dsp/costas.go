package dsp

import "math"

// Costas implements decision-directed carrier recovery: mix the input
// down by the current phase estimate, form a phase error, and drive a
// second-order PI loop filter to track the carrier frequency.
type Costas struct {
	phase     float32
	frequency float32

	proportionalGain float32
	integralGain     float32
	integrator       float32

	carrierFreq float32
	sampleRate  float32
}

// NewCostas builds a loop tracking carrierFreq at sampleRate with the
// given loop bandwidth. Damping is fixed at 0.707.
func NewCostas(carrierFreq, sampleRate, loopBandwidth float32) *Costas {
	const damping = 0.707
	theta := loopBandwidth / sampleRate
	denom := 1 + 2*damping*theta + theta*theta

	return &Costas{
		frequency:        carrierFreq,
		proportionalGain: (4 * damping * theta) / denom,
		integralGain:     (4 * theta * theta) / denom,
		carrierFreq:      carrierFreq,
		sampleRate:       sampleRate,
	}
}

// Process mixes one passband sample down to baseband and advances the
// loop, returning the complex baseband sample (I, Q).
func (c *Costas) Process(input float32) Complex {
	omega := freqToOmega(c.frequency, c.sampleRate)

	iCarrier := float32(math.Cos(float64(c.phase)))
	qCarrier := float32(math.Sin(float64(c.phase)))

	iSignal := input * iCarrier
	qSignal := input * qCarrier

	phaseError := signF32(iSignal)*qSignal - signF32(qSignal)*iSignal

	c.integrator += phaseError * c.integralGain
	freqCorrection := phaseError*c.proportionalGain + c.integrator

	c.frequency = c.carrierFreq + freqCorrection*c.sampleRate/TwoPi32
	c.phase += omega + freqCorrection

	for c.phase >= TwoPi32 {
		c.phase -= TwoPi32
	}
	for c.phase < 0 {
		c.phase += TwoPi32
	}

	return complex(iSignal, qSignal)
}

// Reset returns phase, frequency and the integrator to their initial
// state.
func (c *Costas) Reset() {
	c.phase = 0
	c.frequency = c.carrierFreq
	c.integrator = 0
}

// IsLocked reports whether the tracked frequency is within 10 Hz of the
// nominal carrier.
func (c *Costas) IsLocked() bool {
	diff := c.frequency - c.carrierFreq
	if diff < 0 {
		diff = -diff
	}
	return diff < 10
}

func signF32(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
