// Package transport implements the modem's host-facing byte channel: a
// real Linux pseudoterminal presenting the modem as a /dev/pts device,
// and an in-process loopback for tests.
package transport

import "io"

// Transport is a byte-oriented, line-framed channel between the host
// (a terminal program, a dialer) and the modem supervisor.
type Transport interface {
	io.ReadWriteCloser

	// Name returns the device path a client should open to reach this
	// transport, e.g. "/dev/pts/4" for a Pty or "loopback" for an
	// in-process pair.
	Name() string
}
