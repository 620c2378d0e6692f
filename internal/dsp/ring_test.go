package dsp

import (
	"sync"
	"testing"
)

func TestRingWriteReadFIFO(t *testing.T) {
	r := NewRing[int](8)
	n := r.Write([]int{1, 2, 3})
	if n != 3 {
		t.Fatalf("wrote %d, want 3", n)
	}

	out := make([]int, 3)
	n = r.Read(out)
	if n != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("read back %v (n=%d), want [1 2 3]", out, n)
	}
}

func TestRingCapacityReservesOneSlot(t *testing.T) {
	r := NewRing[int](4)
	if r.Capacity() != 3 {
		t.Fatalf("capacity = %d, want 3 (4 slots - 1 reserved)", r.Capacity())
	}

	n := r.Write([]int{1, 2, 3, 4})
	if n != 3 {
		t.Fatalf("wrote %d of 4, want 3 (buffer full at capacity-1)", n)
	}
}

func TestRingReadMoreThanAvailable(t *testing.T) {
	r := NewRing[int](8)
	r.Write([]int{1, 2})
	out := make([]int, 5)
	n := r.Read(out)
	if n != 2 {
		t.Fatalf("read %d, want 2 (only 2 available)", n)
	}
}

// TestRingSPSCConcurrent exercises the SPSC law from spec property 5:
// with one writer and one reader running concurrently, total reads never
// exceed total writes, and every value read appears in nondecreasing
// write order (FIFO), for any write/read interleaving.
func TestRingSPSCConcurrent(t *testing.T) {
	const total = 100000
	r := NewRing[int](256)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		i := 0
		for i < total {
			chunk := []int{i}
			if r.Write(chunk) == 1 {
				i++
			}
		}
	}()

	results := make([]int, 0, total)
	go func() {
		defer wg.Done()
		buf := make([]int, 1)
		for len(results) < total {
			if r.Read(buf) == 1 {
				results = append(results, buf[0])
			}
		}
	}()

	wg.Wait()

	for i, v := range results {
		if v != i {
			t.Fatalf("result[%d] = %d, want %d (FIFO order violated)", i, v, i)
		}
	}
}
