package dsp

import (
	"math"
	"testing"
)

// TestQAM16SlicerRoundTrip is spec property S6: feeding any constellation
// point (i/3, q/3) back through the slicer returns the index whose table
// entry equals (i, q).
func TestQAM16SlicerRoundTrip(t *testing.T) {
	for idx := 0; idx < 16; idx++ {
		point := MapQAM16(byte(idx))
		got := SliceQAM16(point)
		if got != byte(idx) {
			t.Fatalf("index %d: mapped to %v, sliced back to %d", idx, point, got)
		}
	}
}

func TestDPSKPhaseShiftTable(t *testing.T) {
	cases := []struct {
		dibit byte
		want  float32
	}{
		{0b00, 0},
		{0b01, math32Pi / 2},
		{0b10, math32Pi},
		{0b11, 3 * math32Pi / 2},
	}
	for _, c := range cases {
		if got := DPSKPhaseShift(c.dibit); got != c.want {
			t.Errorf("dibit %02b: got %v, want %v", c.dibit, got, c.want)
		}
	}
}

func TestDPSKSliceRoundTrip(t *testing.T) {
	prev := Complex(complex(1, 0))
	for dibit := byte(0); dibit < 4; dibit++ {
		shift := DPSKPhaseShift(dibit)
		s, c := math.Sincos(float64(shift))
		cur := Complex(complex(float32(c), float32(s)))
		got, _ := DPSKSlice(cur, prev)
		if got != dibit {
			t.Errorf("dibit %02b: recovered %02b", dibit, got)
		}
	}
}
