package dsp

import "math/cmplx"

// Complex is the baseband sample type used throughout the QAM/DPSK chain.
// Go's complex64 carries float32 real/imaginary parts, matching the
// float32 state used elsewhere in this package.
type Complex = complex64

// dpskPhaseMap maps a dibit to its DPSK phase shift: {0, 90, 180, 270}
// degrees, indexed by the dibit value.
var dpskPhaseMap = [4]float32{0, math32Pi / 2, math32Pi, 3 * math32Pi / 2}

const math32Pi = float32(3.14159265358979323846)

// DPSKPhaseShift returns the phase shift in radians for a 2-bit dibit
// (bits 0-1 of in are significant).
func DPSKPhaseShift(in byte) float32 {
	return dpskPhaseMap[in&0x03]
}

// DPSKSlice computes Delta-phi = wrap(arg(cur) - arg(prev)) and slices it
// into one of the four quadrants bounded at {pi/4, 3pi/4, 5pi/4, 7pi/4},
// returning the recovered dibit and the phase difference wrapped to
// [0, 2pi).
func DPSKSlice(cur, prev Complex) (dibit byte, phaseDiff float32) {
	curPhase := float32(cmplx.Phase(complex128(cur)))
	prevPhase := float32(cmplx.Phase(complex128(prev)))

	diff := curPhase - prevPhase
	for diff < 0 {
		diff += TwoPi32
	}
	for diff >= TwoPi32 {
		diff -= TwoPi32
	}

	switch {
	case diff < math32Pi/4 || diff >= 7*math32Pi/4:
		dibit = 0b00
	case diff < 3*math32Pi/4:
		dibit = 0b01
	case diff < 5*math32Pi/4:
		dibit = 0b10
	default:
		dibit = 0b11
	}
	return dibit, diff
}

// qam16Constellation is the 16-QAM (I, Q) amplitude table for V.22bis,
// normalized by 1/3 at lookup time.
var qam16Constellation = [16][2]float32{
	{1, 1}, {1, 3}, {3, 1}, {3, 3}, // quadrant 1
	{-1, 1}, {-1, 3}, {-3, 1}, {-3, 3}, // quadrant 2
	{-1, -1}, {-1, -3}, {-3, -1}, {-3, -3}, // quadrant 3
	{1, -1}, {1, -3}, {3, -1}, {3, -3}, // quadrant 4
}

// MapQAM16 maps 4 bits (bits 0-3 of in) to a 16-QAM constellation point.
func MapQAM16(in byte) Complex {
	p := qam16Constellation[in&0x0F]
	return complex(p[0]/3, p[1]/3)
}

// SliceQAM16 performs minimum-Euclidean-distance decision across the
// 16-point constellation, returning the recovered 4 bits.
func SliceQAM16(symbol Complex) byte {
	var best byte
	minDist := float32(1e38)
	for idx, p := range qam16Constellation {
		point := complex(p[0]/3, p[1]/3)
		d := symbol - point
		dist := real(d)*real(d) + imag(d)*imag(d)
		if dist < minDist {
			minDist = dist
			best = byte(idx)
		}
	}
	return best
}
