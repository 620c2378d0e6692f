//go:build linux

package transport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Pty is a Linux pseudoterminal: the modem reads/writes the master side,
// and a host-side program (minicom, a dialer) opens SlaveName() as its
// virtual serial port.
type Pty struct {
	master *os.File
	slave  string
}

// OpenPty allocates a new pty pair via /dev/ptmx, unlocking and naming
// the slave side.
func OpenPty() (*Pty, error) {
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/ptmx: %w", err)
	}

	fd := int(master.Fd())
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, fmt.Errorf("unlock pty: %w", err)
	}

	n, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, fmt.Errorf("get pty number: %w", err)
	}

	return &Pty{
		master: master,
		slave:  fmt.Sprintf("/dev/pts/%d", n),
	}, nil
}

// SlaveName returns the path the host-side program should open.
func (p *Pty) SlaveName() string { return p.slave }

// Name implements Transport.
func (p *Pty) Name() string { return p.slave }

// Read reads from the master side.
func (p *Pty) Read(b []byte) (int, error) { return p.master.Read(b) }

// Write writes to the master side.
func (p *Pty) Write(b []byte) (int, error) { return p.master.Write(b) }

// Close closes the master side, hanging up any host-side opener.
func (p *Pty) Close() error { return p.master.Close() }
