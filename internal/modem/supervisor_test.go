package modem

import (
	"testing"
	"time"

	"github.com/voiceband/softmodem/internal/atcmd"
)

func TestNewSupervisorDefaults(t *testing.T) {
	s := New()
	if s.State() != Command {
		t.Fatalf("initial state = %v, want Command", s.State())
	}
	if s.Mode() != Bell103 {
		t.Fatalf("initial mode = %v, want Bell103", s.Mode())
	}
	if s.sRegisters[3] != 13 || s.sRegisters[4] != 10 || s.sRegisters[5] != 8 || s.sRegisters[12] != 50 {
		t.Fatalf("default S-registers wrong: S3=%d S4=%d S5=%d S12=%d",
			s.sRegisters[3], s.sRegisters[4], s.sRegisters[5], s.sRegisters[12])
	}
}

func TestAttentionReturnsOk(t *testing.T) {
	s := New()
	resp := s.ProcessCommand(atcmd.Command{Kind: atcmd.Attention})
	if len(resp) != 1 || resp[0].Kind != atcmd.Ok {
		t.Fatalf("got %v, want [Ok]", resp)
	}
}

func TestDialConnectsAtCurrentSpeed(t *testing.T) {
	s := New()
	resp := s.ProcessCommand(atcmd.Command{Kind: atcmd.Dial, Digits: "5551234"})
	if len(resp) != 1 || resp[0].Kind != atcmd.Connect || resp[0].Baud != 300 {
		t.Fatalf("got %v, want [Connect(300)]", resp)
	}
	if s.State() != Connected {
		t.Fatalf("state = %v, want Connected", s.State())
	}
}

func TestSelectSpeedReconfiguresMode(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.SelectSpeed, Speed: 2400})
	if s.Mode() != V22bis {
		t.Fatalf("mode = %v, want V22bis", s.Mode())
	}
	if s.qamMod == nil || s.qamDemod == nil {
		t.Fatal("V.22bis mode should build a QAM pair")
	}
	if s.fskMod == nil || s.fskDemod == nil {
		t.Fatal("FSK pair must always be present as fallback")
	}
}

func TestSelectSpeedBell103HasNoQAMPair(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.SelectSpeed, Speed: 2400})
	s.ProcessCommand(atcmd.Command{Kind: atcmd.SelectSpeed, Speed: 300})
	if s.qamMod != nil || s.qamDemod != nil {
		t.Fatal("Bell 103 mode should not carry a QAM pair")
	}
}

func TestSRegisterRoundTrip(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.SetRegister, Register: 12, Value: 30})
	resp := s.ProcessCommand(atcmd.Command{Kind: atcmd.QueryRegister, Register: 12})
	if len(resp) != 1 || resp[0].Kind != atcmd.Text || resp[0].Text != "030" {
		t.Fatalf("got %v, want [Text(030)]", resp)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.SetRegister, Register: 12, Value: 5})
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Dial, Digits: "1"})
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Reset})

	if s.State() != Command {
		t.Fatalf("state after reset = %v, want Command", s.State())
	}
	if s.sRegisters[12] != 50 {
		t.Fatalf("S12 after reset = %d, want 50", s.sRegisters[12])
	}
}

func TestHangupReturnsToCommand(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Dial, Digits: "1"})
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Hangup})
	if s.State() != Command {
		t.Fatalf("state after hangup = %v, want Command", s.State())
	}
}

func TestEscapeSequenceRequiresGuardTime(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.SetRegister, Register: 12, Value: 0}) // 0 * 20ms guard time
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Dial, Digits: "1"})

	s.ProcessDataByte('+')
	s.ProcessDataByte('+')
	_, ok := s.ProcessDataByte('+')
	if !ok {
		t.Fatal("expected escape sequence to fire with zero guard time")
	}
	if s.State() != Command {
		t.Fatalf("state after escape = %v, want Command", s.State())
	}
}

func TestEscapeSequenceAbandonedByNonPlusByte(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Dial, Digits: "1"})

	s.ProcessDataByte('+')
	s.ProcessDataByte('+')
	_, ok := s.ProcessDataByte('x')
	if ok {
		t.Fatal("non-'+' byte should abandon escape tracking, not fire it")
	}
	if len(s.txBuffer) != 1 || s.txBuffer[0] != 'x' {
		t.Fatalf("txBuffer = %v, want ['x'] queued as data", s.txBuffer)
	}
}

func TestGuardTimeDerivesFromS12(t *testing.T) {
	s := New()
	s.sRegisters[12] = 10
	if got := s.GuardTime(); got != 200*time.Millisecond {
		t.Fatalf("guard time = %v, want 200ms", got)
	}
}

func TestTXRXLoopback(t *testing.T) {
	s := New()
	s.ProcessCommand(atcmd.Command{Kind: atcmd.Dial, Digits: "1"})
	s.ProcessDataByte('H')
	s.ProcessDataByte('I')

	samples := s.ProcessTXQueue()
	if len(samples) == 0 {
		t.Fatal("expected modulated samples from TX queue")
	}

	got := s.ProcessRXSamples(samples)
	if len(got) == 0 {
		t.Fatal("expected demodulated bytes from RX samples")
	}
}

func TestDialToneProducesSamplesPerDigit(t *testing.T) {
	s := New()
	samples := s.DialTone("123")
	if len(samples) == 0 {
		t.Fatal("expected non-empty DTMF dial tone")
	}
}

func TestInfoQueryText(t *testing.T) {
	s := New()
	resp := s.ProcessCommand(atcmd.Command{Kind: atcmd.Info, InfoIndex: "3"})
	if len(resp) != 1 || resp[0].Kind != atcmd.Text || resp[0].Text != "Softmodem" {
		t.Fatalf("got %v, want [Text(Softmodem)]", resp)
	}
}
