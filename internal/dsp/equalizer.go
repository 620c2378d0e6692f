package dsp

// LMS is a complex-tap adaptive FIR equalizer trained by the
// least-mean-squares rule: w[i] += mu * e * conj(x[i]).
//
// The center tap starts at 1+0j and every other tap at 0, so an
// unequalized channel passes through unchanged, delayed by numTaps/2
// symbols, until the loop converges.
// Training mode is controlled externally; while training, callers supply
// the known transmitted symbol as the error reference. Once training is
// turned off the slicer's decision is used instead (decision-directed).
type LMS struct {
	taps     []Complex
	delay    []Complex
	writeIdx int
	mu       float32
	Training bool
	slice    func(Complex) Complex
}

// NewLMS creates an N-tap equalizer with step size mu. slice computes the
// hard decision for a symbol in decision-directed mode; pass nil to use a
// simple round-to-nearest-integer decision.
func NewLMS(numTaps int, mu float32, slice func(Complex) Complex) *LMS {
	l := &LMS{
		taps:     make([]Complex, numTaps),
		delay:    make([]Complex, numTaps),
		mu:       mu,
		Training: true,
		slice:    slice,
	}
	l.taps[numTaps/2] = complex(1, 0)
	return l
}

// Equalize filters input through the tap delay line and, depending on
// training mode, adapts the taps against either the supplied training
// symbol or a decision-directed slice of the output.
func (l *LMS) Equalize(input Complex, trainingSymbol *Complex) Complex {
	n := len(l.taps)
	l.delay[l.writeIdx] = input
	l.writeIdx = (l.writeIdx + 1) % n

	var output Complex
	for i := 0; i < n; i++ {
		pos := (l.writeIdx + i) % n
		output += l.taps[i] * l.delay[pos]
	}

	switch {
	case trainingSymbol != nil:
		l.updateTaps(*trainingSymbol - output)
	case !l.Training:
		l.updateTaps(l.decide(output) - output)
	}

	return output
}

func (l *LMS) decide(symbol Complex) Complex {
	if l.slice != nil {
		return l.slice(symbol)
	}
	return complex(roundF32(real(symbol)), roundF32(imag(symbol)))
}

func (l *LMS) updateTaps(err Complex) {
	n := len(l.taps)
	muErr := complex(l.mu, 0) * err
	for i := 0; i < n; i++ {
		pos := (l.writeIdx + i) % n
		l.taps[i] += muErr * complexConj(l.delay[pos])
	}
}

// Reset restores the center-tap-only initial condition and clears the
// delay line. Training mode is re-enabled.
func (l *LMS) Reset() {
	n := len(l.taps)
	for i := range l.taps {
		l.taps[i] = 0
		l.delay[i] = 0
	}
	l.taps[n/2] = complex(1, 0)
	l.writeIdx = 0
	l.Training = true
}

func complexConj(c Complex) Complex {
	return complex(real(c), -imag(c))
}

func roundF32(x float32) float32 {
	if x >= 0 {
		return float32(int(x + 0.5))
	}
	return float32(int(x - 0.5))
}
