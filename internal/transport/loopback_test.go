package transport

import "testing"

func TestLoopbackPairDelivers(t *testing.T) {
	a, b := NewLoopbackPair()
	defer a.Close()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 5)
		n, err := b.Read(buf)
		if err != nil {
			t.Errorf("Read: %v", err)
			return
		}
		if string(buf[:n]) != "ATZ\r\n" {
			t.Errorf("got %q, want %q", buf[:n], "ATZ\r\n")
		}
	}()

	if _, err := a.Write([]byte("ATZ\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	<-done
}

func TestLoopbackIsDuplex(t *testing.T) {
	a, b := NewLoopbackPair()
	defer a.Close()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 2)
		n, _ := a.Read(buf)
		if string(buf[:n]) != "OK" {
			t.Errorf("got %q, want OK", buf[:n])
		}
	}()

	if _, err := b.Write([]byte("OK")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	<-done
}
