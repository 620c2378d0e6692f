// Package qam implements the V.22/V.22bis/Bell 212A quadrature
// modulator and demodulator: DPSK at 1200 bps, 16-QAM at 2400 bps, both
// at 600 baud.
package qam

import (
	"math"
	"math/cmplx"

	"github.com/voiceband/softmodem/internal/dsp"
)

// Mode identifies a QAM/DPSK line protocol.
type Mode int

const (
	V22 Mode = iota // 1200 bps DPSK, 2 bits/symbol
	V22bis          // 2400 bps 16-QAM, 4 bits/symbol
	Bell212A        // 1200 bps DPSK, compatible with V.22
)

// SymbolRate is 600 baud for every mode this modem supports.
func (m Mode) SymbolRate() float32 { return 600 }

// BitsPerSymbol returns 2 for the DPSK modes, 4 for V.22bis.
func (m Mode) BitsPerSymbol() int {
	if m == V22bis {
		return 4
	}
	return 2
}

// DataRate returns the nominal bits-per-second for the mode.
func (m Mode) DataRate() int {
	if m == V22bis {
		return 2400
	}
	return 1200
}

// CarrierOriginate and CarrierAnswer are the low-band/high-band carrier
// frequencies shared by all three modes.
const (
	CarrierOriginate = 1200.0
	CarrierAnswer    = 2400.0
)

// Modulator drives the transmit pipeline described for the QAM/DPSK
// modem: pack, scramble, map to constellation, quadrature-mix, shape.
type Modulator struct {
	mode             Mode
	sampleRate       float32
	samplesPerSymbol int

	carrier   *dsp.NCO
	scrambler *dsp.Scrambler
	dpskPhase float32
	txFilter  *dsp.Biquad
}

// NewModulator builds a modulator for mode at the given carrier and
// sample rate.
func NewModulator(mode Mode, carrierFreq, sampleRate float32) *Modulator {
	symbolRate := mode.SymbolRate()
	cutoff := symbolRate * 0.6
	const q = 0.70710678 // 1/sqrt(2)

	return &Modulator{
		mode:             mode,
		sampleRate:       sampleRate,
		samplesPerSymbol: int(sampleRate / symbolRate),
		carrier:          dsp.NewNCO(carrierFreq, sampleRate, 1.0),
		scrambler:        dsp.NewScrambler(),
		txFilter:         dsp.Lowpass(cutoff, q, sampleRate),
	}
}

// Modulate renders bits to audio samples, dropping any trailing symbol
// that doesn't fill a complete bits-per-symbol group.
func (m *Modulator) Modulate(bits []bool) []float32 {
	bps := m.mode.BitsPerSymbol()
	samples := make([]float32, 0, (len(bits)/bps)*m.samplesPerSymbol)

	for i := 0; i+bps <= len(bits); i += bps {
		symbolBits := bits[i : i+bps]

		var symbolData byte
		for j, bit := range symbolBits {
			if bit {
				symbolData |= 1 << uint(j)
			}
		}

		scrambled := m.scramble(symbolData, bps)
		baseband := m.mapSymbol(scrambled)

		for s := 0; s < m.samplesPerSymbol; s++ {
			sinC, cosC := m.carrier.NextQuadrature()
			sample := real(baseband)*cosC - imag(baseband)*sinC
			samples = append(samples, m.txFilter.Process(sample))
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

// scramble runs exactly bps data bits through the scrambler, one bit at a
// time, regardless of mode: V.22bis must scramble the same 4 bits/symbol
// it transmits, not a full byte, or the receive side's matching 4-bit
// descramble can never stay in step with the transmit register.
func (m *Modulator) scramble(symbolData byte, bps int) byte {
	var s byte
	for i := 0; i < bps; i++ {
		if m.scrambler.ScrambleBit(symbolData&(1<<uint(i)) != 0) {
			s |= 1 << uint(i)
		}
	}
	return s
}

func (m *Modulator) mapSymbol(scrambled byte) dsp.Complex {
	if m.mode == V22bis {
		return dsp.MapQAM16(scrambled)
	}
	m.dpskPhase += dsp.DPSKPhaseShift(scrambled)
	for m.dpskPhase >= dsp.TwoPi32 {
		m.dpskPhase -= dsp.TwoPi32
	}
	sin, cos := sincosF32(m.dpskPhase)
	return dsp.Complex(complex(cos, sin))
}

func sincosF32(x float32) (sin, cos float32) {
	s, c := math.Sincos(float64(x))
	return float32(s), float32(c)
}

// Reset clears the scrambler, DPSK phase accumulator and transmit filter
// state.
func (m *Modulator) Reset() {
	m.scrambler.Reset()
	m.dpskPhase = 0
	m.txFilter.Reset()
}

// Demodulator drives the receive pipeline: matched filter, Costas carrier
// recovery, a counted symbol-timing gate, LMS equalization, slicing and
// descrambling.
type Demodulator struct {
	mode             Mode
	samplesPerSymbol int

	rxFilter    *dsp.Biquad
	costas      *dsp.Costas
	equalizer   *dsp.LMS
	descrambler *dsp.Scrambler

	sampleCounter float32
	prevPhase     float32
}

// NewDemodulator builds a demodulator for mode at the given carrier and
// sample rate. Equalizer taps and loop bandwidth are fixed: 17 taps at
// mu=0.01, Costas bandwidth 5% of symbol rate.
func NewDemodulator(mode Mode, carrierFreq, sampleRate float32) *Demodulator {
	symbolRate := mode.SymbolRate()
	cutoff := symbolRate * 0.6
	const q = 0.70710678

	return &Demodulator{
		mode:             mode,
		samplesPerSymbol: int(sampleRate / symbolRate),
		rxFilter:         dsp.Lowpass(cutoff, q, sampleRate),
		costas:           dsp.NewCostas(carrierFreq, sampleRate, symbolRate*0.05),
		equalizer:        dsp.NewLMS(17, 0.01, nil),
		descrambler:      dsp.NewScrambler(),
	}
}

// Demodulate processes samples and returns every bit recovered from
// symbols completed within them.
func (d *Demodulator) Demodulate(samples []float32) []bool {
	var bits []bool

	for _, s := range samples {
		filtered := d.rxFilter.Process(s)
		baseband := d.costas.Process(filtered)

		d.sampleCounter++
		if d.sampleCounter < float32(d.samplesPerSymbol) {
			continue
		}
		d.sampleCounter -= float32(d.samplesPerSymbol)

		equalized := d.equalizer.Equalize(baseband, nil)
		symbolBits := d.demodulateSymbol(equalized)
		for _, b := range symbolBits {
			bits = append(bits, d.descrambler.DescrambleBit(b))
		}
	}
	return bits
}

// DemodulateBytes demodulates samples and reassembles complete bytes
// LSB-first, dropping any trailing incomplete byte.
func (d *Demodulator) DemodulateBytes(samples []float32) []byte {
	bits := d.Demodulate(samples)
	var out []byte
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			if bits[i+j] {
				b |= 1 << uint(j)
			}
		}
		out = append(out, b)
	}
	return out
}

func (d *Demodulator) demodulateSymbol(symbol dsp.Complex) []bool {
	if d.mode == V22bis {
		quadbits := dsp.SliceQAM16(symbol)
		return []bool{
			quadbits&1 != 0,
			quadbits&2 != 0,
			quadbits&4 != 0,
			quadbits&8 != 0,
		}
	}

	sin, cos := sincosF32(d.prevPhase)
	dibit, _ := dsp.DPSKSlice(symbol, dsp.Complex(complex(cos, sin)))
	d.prevPhase = float32(cmplx.Phase(complex128(symbol)))
	return []bool{dibit&1 != 0, dibit&2 != 0}
}

// Reset clears carrier recovery, equalization, matched-filter and
// descrambler state.
func (d *Demodulator) Reset() {
	d.costas.Reset()
	d.equalizer.Reset()
	d.rxFilter.Reset()
	d.descrambler.Reset()
	d.sampleCounter = 0
	d.prevPhase = 0
}

// IsLocked reports whether the Costas loop has acquired the carrier.
func (d *Demodulator) IsLocked() bool {
	return d.costas.IsLocked()
}
