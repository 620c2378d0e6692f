package dsp

// Gardner implements Gardner-style symbol timing recovery.
//
// The source this was distilled from conflated the loop-filter output
// with the fractional interpolation phase, making mu simultaneously a
// timing error and a sample offset. This implementation keeps them
// separate per the clarified design: mu is strictly the fractional-sample
// offset in [-0.5, 0.5]; the integer sample index advances by exactly one
// per call; the PI controller runs on the Gardner error
// (y[n] - y[n-2]) * y[n-1], evaluated at symbol-center (y[n], y[n-2]) and
// mid-symbol (y[n-1]) strobes; and the strobe value itself is produced by
// linear interpolation between the two most recent raw samples at
// fractional position (0.5 + mu).
type Gardner struct {
	samplesPerSymbol float32
	mu               float32

	proportionalGain float32
	integralGain     float32
	integrator       float32

	counter float32 // fractional position within the current symbol period
	prevRaw float32
	haveMid bool
	midVal  float32
	prevSym float32
}

// NewGardner builds a timing recoverer for the given nominal
// samples-per-symbol and loop bandwidth (damping fixed at 0.707).
func NewGardner(samplesPerSymbol, loopBandwidth float32) *Gardner {
	const damping = 0.707
	const detectorGain = 1.0
	theta := loopBandwidth / samplesPerSymbol
	denom := 1 + 2*damping*theta + theta*theta

	return &Gardner{
		samplesPerSymbol: samplesPerSymbol,
		proportionalGain: (4 * damping * theta) / (detectorGain * denom),
		integralGain:     (4 * theta * theta) / (detectorGain * denom),
	}
}

// Process feeds one raw sample and returns the recovered symbol value
// (interpolated at the current timing estimate) and true whenever a full
// symbol period has elapsed.
func (g *Gardner) Process(raw float32) (symbol float32, ok bool) {
	t := 0.5 + g.mu
	interp := g.prevRaw + t*(raw-g.prevRaw)

	g.counter++

	if !g.haveMid && g.counter >= g.samplesPerSymbol/2 {
		g.midVal = interp
		g.haveMid = true
	}

	if g.counter >= g.samplesPerSymbol {
		symVal := interp

		if g.haveMid {
			timingError := (symVal - g.prevSym) * g.midVal
			g.integrator += timingError * g.integralGain
			adjustment := timingError*g.proportionalGain + g.integrator
			g.mu += adjustment
			if g.mu >= 0.5 {
				g.mu = 0.5
			} else if g.mu < -0.5 {
				g.mu = -0.5
			}
		}

		g.prevSym = symVal
		g.haveMid = false
		g.counter -= g.samplesPerSymbol
		g.prevRaw = raw
		return symVal, true
	}

	g.prevRaw = raw
	return 0, false
}

// Reset clears the loop filter and timing history; mu returns to zero.
func (g *Gardner) Reset() {
	g.mu = 0
	g.integrator = 0
	g.counter = 0
	g.prevRaw = 0
	g.haveMid = false
	g.midVal = 0
	g.prevSym = 0
}

// Mu returns the current fractional-sample timing offset.
func (g *Gardner) Mu() float32 {
	return g.mu
}
