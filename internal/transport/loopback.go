package transport

import "io"

// Loopback is an in-process duplex transport backed by a pair of pipes:
// bytes written by the "host" side are what the "modem" side reads, and
// vice versa. Used by tests in place of a real pty.
type Loopback struct {
	readSide  *io.PipeReader
	writeSide *io.PipeWriter
}

// NewLoopbackPair returns two ends of the same duplex channel: bytes
// written to one are read from the other.
func NewLoopbackPair() (a, b *Loopback) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	return &Loopback{readSide: r1, writeSide: w2},
		&Loopback{readSide: r2, writeSide: w1}
}

// Name implements Transport.
func (l *Loopback) Name() string { return "loopback" }

// Read reads bytes the peer wrote.
func (l *Loopback) Read(b []byte) (int, error) { return l.readSide.Read(b) }

// Write sends bytes to the peer.
func (l *Loopback) Write(b []byte) (int, error) { return l.writeSide.Write(b) }

// Close closes both pipe halves this end owns.
func (l *Loopback) Close() error {
	err1 := l.writeSide.Close()
	err2 := l.readSide.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
