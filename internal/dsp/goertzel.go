package dsp

import "math"

// Goertzel computes the energy in a single DFT bin in O(N) per block,
// without a full transform.
type Goertzel struct {
	coefficient float32
	s1, s2      float32
	n           int
	blockSize   int
}

// NewGoertzel builds a detector for targetFreq at sampleRate, examining
// blocks of blockSize samples.
func NewGoertzel(targetFreq, sampleRate float32, blockSize int) *Goertzel {
	k := int(0.5 + float64(blockSize)*float64(targetFreq)/float64(sampleRate))
	omega := TwoPi32 * float32(k) / float32(blockSize)
	coefficient := 2 * float32(math.Cos(float64(omega)))

	return &Goertzel{
		coefficient: coefficient,
		blockSize:   blockSize,
	}
}

// ProcessSample feeds one sample into the recursive filter.
func (g *Goertzel) ProcessSample(sample float32) {
	s0 := sample + g.coefficient*g.s1 - g.s2
	g.s2 = g.s1
	g.s1 = s0
	g.n++
}

// MagnitudeSquared returns the energy at the target bin.
func (g *Goertzel) MagnitudeSquared() float32 {
	return g.s1*g.s1 + g.s2*g.s2 - g.coefficient*g.s1*g.s2
}

// Magnitude returns sqrt(MagnitudeSquared()).
func (g *Goertzel) Magnitude() float32 {
	return float32(math.Sqrt(float64(g.MagnitudeSquared())))
}

// Reset clears the state registers and sample count.
func (g *Goertzel) Reset() {
	g.s1, g.s2 = 0, 0
	g.n = 0
}

// IsComplete reports whether a full block has been fed.
func (g *Goertzel) IsComplete() bool {
	return g.n >= g.blockSize
}

// DualTone runs two Goertzel detectors of equal block size and decides
// which of two tones (mark/space) is stronger.
type DualTone struct {
	mark, space *Goertzel
}

// NewDualTone builds a mark/space pair at the given sample rate and block
// size.
func NewDualTone(markFreq, spaceFreq, sampleRate float32, blockSize int) *DualTone {
	return &DualTone{
		mark:  NewGoertzel(markFreq, sampleRate, blockSize),
		space: NewGoertzel(spaceFreq, sampleRate, blockSize),
	}
}

// ProcessSample feeds sample to both detectors.
func (d *DualTone) ProcessSample(sample float32) {
	d.mark.ProcessSample(sample)
	d.space.ProcessSample(sample)
}

// DetectBit reports true (mark/1) when the mark tone carries more energy
// than the space tone.
func (d *DualTone) DetectBit() bool {
	return d.mark.MagnitudeSquared() > d.space.MagnitudeSquared()
}

// EnergyRatio returns mark energy over space energy, guarded against
// division by a near-zero space energy.
func (d *DualTone) EnergyRatio() float32 {
	space := d.space.MagnitudeSquared()
	if space > 1e-10 {
		return d.mark.MagnitudeSquared() / space
	}
	return 0
}

// Reset clears both detectors.
func (d *DualTone) Reset() {
	d.mark.Reset()
	d.space.Reset()
}

// IsComplete reports whether a full block has been fed (both detectors
// share the same block size).
func (d *DualTone) IsComplete() bool {
	return d.mark.IsComplete()
}
