// Package modem implements the Hayes command-set modem supervisor: the
// state machine, S-register bank and escape-sequence detector that sit
// between the host's AT command stream and the FSK/QAM DSP chains.
package modem

import (
	"time"

	"github.com/voiceband/softmodem/internal/atcmd"
	"github.com/voiceband/softmodem/internal/dsp"
	"github.com/voiceband/softmodem/internal/fsk"
	"github.com/voiceband/softmodem/internal/logx"
	"github.com/voiceband/softmodem/internal/qam"
)

// State is the supervisor's top-level operating state.
type State int

const (
	Command State = iota
	Dialing
	Ringing
	Connecting
	Connected
	OnHook
	OffHook
)

func (s State) String() string {
	switch s {
	case Command:
		return "Command"
	case Dialing:
		return "Dialing"
	case Ringing:
		return "Ringing"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case OnHook:
		return "OnHook"
	case OffHook:
		return "OffHook"
	default:
		return "Unknown"
	}
}

// Mode is the active line protocol, selected by SelectSpeed.
type Mode int

const (
	Bell103 Mode = iota
	V22
	V22bis
	Bell212A
)

const (
	escapeSequenceLen  = 3
	escapeGuardDefault = 50 // S12 default, 20 ms units = 1 s
	guardTimeUnit      = 20 * time.Millisecond

	// DialTimeout is the 30 s limit for a Dial in Connecting. It is not
	// enforced: Dial moves from Connecting to Connected within the same
	// call, and no code path checks dialStartedAt against it, so a dial
	// never times out to OnHook.
	DialTimeout = 30 * time.Second
)

// Supervisor is the modem's control-plane state machine: it owns the
// S-register bank, the active FSK/QAM pair, and the host-facing TX/RX
// byte buffers.
type Supervisor struct {
	state State
	log   *logx.Logger

	sRegisters [256]byte

	currentMode      Mode
	connectionSpeed  uint32
	fskMod           *fsk.Modulator
	fskDemod         *fsk.Demodulator
	qamMod           *qam.Modulator
	qamDemod         *qam.Demodulator
	dtmf             *dsp.DTMFGenerator

	echo    bool
	verbose bool
	speaker bool

	connected       bool
	plusCount       int
	escapeStartedAt time.Time
	dialStartedAt   time.Time

	txBuffer []byte
	rxBuffer []byte
}

// New returns a supervisor in Command state, Bell 103 originate at 300
// baud, with default S-registers.
func New() *Supervisor {
	s := &Supervisor{
		log:     logx.New("modem"),
		echo:    true,
		verbose: true,
		speaker: true,
	}
	s.resetRegisters()
	s.reconfigureForSpeed(300)
	return s
}

func (s *Supervisor) resetRegisters() {
	s.sRegisters = [256]byte{}
	s.sRegisters[3] = 13 // CR
	s.sRegisters[4] = 10 // LF
	s.sRegisters[5] = 8  // BS
	s.sRegisters[12] = escapeGuardDefault
}

// State returns the supervisor's current top-level state.
func (s *Supervisor) State() State { return s.state }

// Mode returns the active line protocol.
func (s *Supervisor) Mode() Mode { return s.currentMode }

func (s *Supervisor) reconfigureForSpeed(speed uint32) {
	s.connectionSpeed = speed
	switch speed {
	case 300:
		s.currentMode = Bell103
	case 1200:
		s.currentMode = V22
	case 2400:
		s.currentMode = V22bis
	}

	const sampleRate = dsp.SampleRate

	fskMode := fsk.Bell103Originate
	if s.currentMode != Bell103 {
		fskMode = fsk.V21Originate
	}
	s.fskMod = fsk.NewModulator(fskMode, float32(speed), sampleRate)
	s.fskDemod = fsk.NewDemodulator(fskMode, float32(speed), sampleRate)
	s.dtmf = dsp.NewDTMFGenerator(sampleRate)

	switch s.currentMode {
	case V22, V22bis, Bell212A:
		qamMode := qam.V22
		switch s.currentMode {
		case V22bis:
			qamMode = qam.V22bis
		case Bell212A:
			qamMode = qam.Bell212A
		}
		s.qamMod = qam.NewModulator(qamMode, qam.CarrierOriginate, sampleRate)
		s.qamDemod = qam.NewDemodulator(qamMode, qam.CarrierOriginate, sampleRate)
	default:
		s.qamMod = nil
		s.qamDemod = nil
	}
}

// infoText answers ATI<n>; index 0 is the connect speed, matching the
// convention most Hayes-compatible modems use for ATI0.
func (s *Supervisor) infoText(index string) string {
	switch index {
	case "0":
		return itoa(int(s.connectionSpeed))
	case "1":
		return "OK"
	case "2":
		return "OK"
	case "3":
		return "Softmodem"
	case "4":
		return "Go Implementation"
	default:
		return "Unknown info type " + index
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ProcessCommand executes one parsed AT command and returns the
// response lines to send back to the host.
func (s *Supervisor) ProcessCommand(cmd atcmd.Command) []atcmd.Response {
	s.log.Printf("processing command: %v", cmd)

	switch cmd.Kind {
	case atcmd.Attention:
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.Dial:
		s.log.Printf("dialing: %s", cmd.Digits)
		s.state = Connecting
		s.dialStartedAt = time.Now()
		s.connected = true
		s.state = Connected
		return []atcmd.Response{{Kind: atcmd.Connect, Baud: s.connectionSpeed}}

	case atcmd.Answer:
		s.state = Connected
		s.connected = true
		return []atcmd.Response{{Kind: atcmd.Connect, Baud: s.connectionSpeed}}

	case atcmd.Hangup:
		s.Hangup()
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.SetEcho:
		s.echo = cmd.Bool
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.SetVerbose:
		s.verbose = cmd.Bool
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.SetSpeaker:
		s.speaker = cmd.Bool
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.SelectSpeed:
		s.reconfigureForSpeed(cmd.Speed)
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.Info:
		return []atcmd.Response{{Kind: atcmd.Text, Text: s.infoText(cmd.InfoIndex)}}

	case atcmd.GoOnline:
		s.state = Connected
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.Reset:
		s.Reset()
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.SetRegister:
		s.sRegisters[cmd.Register] = cmd.Value
		return []atcmd.Response{{Kind: atcmd.Ok}}

	case atcmd.QueryRegister:
		return []atcmd.Response{{Kind: atcmd.Text, Text: pad3(s.sRegisters[cmd.Register])}}

	default:
		return []atcmd.Response{{Kind: atcmd.Error}}
	}
}

func pad3(v byte) string {
	s := itoa(int(v))
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// GuardTime returns the escape-sequence guard time derived from S12.
func (s *Supervisor) GuardTime() time.Duration {
	return time.Duration(s.sRegisters[12]) * guardTimeUnit
}

// ProcessDataByte handles one byte received from the host while
// Connected, tracking the "+++" escape sequence. It returns ok=true and
// the escape response when the third consecutive '+' arrives at least
// the guard time after the first; a third '+' that comes sooner abandons
// the attempt. '+' bytes are consumed by the tracker and never queued;
// any other byte resets the tracker and is queued for transmission.
func (s *Supervisor) ProcessDataByte(b byte) (responses []atcmd.Response, ok bool) {
	if b == '+' {
		s.plusCount++
		if s.plusCount == 1 {
			s.escapeStartedAt = time.Now()
		} else if s.plusCount == escapeSequenceLen {
			if !s.escapeStartedAt.IsZero() && time.Since(s.escapeStartedAt) >= s.GuardTime() {
				s.log.Println("escape sequence detected, returning to command mode")
				s.Hangup()
				return []atcmd.Response{{Kind: atcmd.Ok}}, true
			}
			s.plusCount = 0
			s.escapeStartedAt = time.Time{}
		}
		return nil, false
	}

	s.plusCount = 0
	s.escapeStartedAt = time.Time{}
	s.txBuffer = append(s.txBuffer, b)
	return nil, false
}

// ProcessTXQueue drains the pending host TX buffer and modulates it with
// the active line protocol (QAM for V-series speeds, FSK otherwise).
func (s *Supervisor) ProcessTXQueue() []float32 {
	if len(s.txBuffer) == 0 {
		return nil
	}
	data := s.txBuffer
	s.txBuffer = nil

	if s.qamMod != nil {
		return s.qamMod.ModulateBytes(data)
	}
	return s.fskMod.ModulateBytes(data)
}

// ProcessRXSamples demodulates a block of captured audio with the active
// line protocol and appends the recovered bytes to the host-facing RX
// buffer, returning everything newly available.
func (s *Supervisor) ProcessRXSamples(samples []float32) []byte {
	var decoded []byte
	if s.qamDemod != nil {
		decoded = s.qamDemod.DemodulateBytes(samples)
	} else {
		decoded = s.fskDemod.DemodulateBytes(samples)
	}

	if len(decoded) == 0 {
		return nil
	}
	s.rxBuffer = append(s.rxBuffer, decoded...)
	out := s.rxBuffer
	s.rxBuffer = nil
	return out
}

// DialTone renders a DTMF dialing sequence for the given digits, a fixed
// 100 ms of tone per digit. The Dial command does not call it; ATD
// connects without playing any tones.
func (s *Supervisor) DialTone(digits string) []float32 {
	const toneDurationSamples = int(dsp.SampleRate * 0.1)
	var out []float32
	for _, d := range digits {
		out = append(out, s.dtmf.GenerateDigit(d, toneDurationSamples)...)
	}
	return out
}

// Hangup drops the connection and returns to Command state, clearing
// buffers and escape tracking.
func (s *Supervisor) Hangup() {
	s.connected = false
	s.state = Command
	s.txBuffer = nil
	s.plusCount = 0
	s.escapeStartedAt = time.Time{}
}

// Reset restores default S-registers and Command state, clearing all
// buffers. The AT parser is owned by the caller and is not reset here.
func (s *Supervisor) Reset() {
	s.Hangup()
	s.resetRegisters()
	s.rxBuffer = nil
}
