package audio

import "testing"

func TestLoopbackBackendRoundTrip(t *testing.T) {
	b := NewLoopbackBackend(16)
	if err := b.Write([]float32{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]float32, 3)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 3 || buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Fatalf("got %v (n=%d), want [1 2 3]", buf, n)
	}
}

func TestEngineWithLoopbackBackend(t *testing.T) {
	backend := NewLoopbackBackend(64)
	e := NewEngine(DefaultConfig(), backend, backend)
	e.Start()
	defer e.Stop()

	e.QueuePlayback([]float32{0.5, -0.5})
	e.RequestCapture()

	events := waitForEvents(t, e, 2)
	var sawCapture bool
	for _, ev := range events {
		if ev.Kind == EventCapturedSamples {
			sawCapture = true
		}
	}
	if !sawCapture {
		t.Fatal("expected a CapturedSamples event routed through the loopback backend")
	}
}
