package atcmd

import "testing"

func TestBareAttention(t *testing.T) {
	cmds := ParseLine("AT")
	if len(cmds) != 1 || cmds[0].Kind != Attention {
		t.Fatalf("got %v, want [Attention]", cmds)
	}
}

func TestCaseInsensitive(t *testing.T) {
	upper := ParseLine("ATZ")
	lower := ParseLine("atz")
	if len(upper) != 1 || len(lower) != 1 || upper[0].Kind != Reset || lower[0].Kind != Reset {
		t.Fatalf("got upper=%v lower=%v, want both [Reset]", upper, lower)
	}
}

func TestCompoundCommand(t *testing.T) {
	cmds := ParseLine("ATE1V1Z")
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3: %v", len(cmds), cmds)
	}
	if cmds[0].Kind != SetEcho || !cmds[0].Bool {
		t.Fatalf("cmd[0] = %v, want SetEcho(true)", cmds[0])
	}
	if cmds[1].Kind != SetVerbose || !cmds[1].Bool {
		t.Fatalf("cmd[1] = %v, want SetVerbose(true)", cmds[1])
	}
	if cmds[2].Kind != Reset {
		t.Fatalf("cmd[2] = %v, want Reset", cmds[2])
	}
}

func TestDialWithTonePrefix(t *testing.T) {
	cmds := ParseLine("ATDT5551234")
	if len(cmds) != 1 || cmds[0].Kind != Dial || cmds[0].Digits != "5551234" {
		t.Fatalf("got %v, want [Dial(5551234)]", cmds)
	}
}

func TestDialWithPulsePrefix(t *testing.T) {
	cmds := ParseLine("ATDP5551234")
	if len(cmds) != 1 || cmds[0].Kind != Dial || cmds[0].Digits != "5551234" {
		t.Fatalf("got %v, want [Dial(5551234)]", cmds)
	}
}

func TestDialConsumesRestOfLine(t *testing.T) {
	cmds := ParseLine("ATD1234Z")
	if len(cmds) != 1 || cmds[0].Kind != Dial || cmds[0].Digits != "1234Z" {
		t.Fatalf("got %v, want Dial to swallow the rest of the line", cmds)
	}
}

func TestSetRegister(t *testing.T) {
	cmds := ParseLine("ATS12=50")
	if len(cmds) != 1 || cmds[0].Kind != SetRegister || cmds[0].Register != 12 || cmds[0].Value != 50 {
		t.Fatalf("got %v, want [SetRegister(12,50)]", cmds)
	}
}

func TestQueryRegister(t *testing.T) {
	cmds := ParseLine("ATS3?")
	if len(cmds) != 1 || cmds[0].Kind != QueryRegister || cmds[0].Register != 3 {
		t.Fatalf("got %v, want [QueryRegister(3)]", cmds)
	}
}

func TestSelectSpeed(t *testing.T) {
	cmds := ParseLine("AT+MS=1200")
	if len(cmds) != 1 || cmds[0].Kind != SelectSpeed || cmds[0].Speed != 1200 {
		t.Fatalf("got %v, want [SelectSpeed(1200)]", cmds)
	}
}

func TestInfoQuery(t *testing.T) {
	cmds := ParseLine("ATI3")
	if len(cmds) != 1 || cmds[0].Kind != Info || cmds[0].InfoIndex != "3" {
		t.Fatalf("got %v, want [Info(3)]", cmds)
	}
}

func TestInfoDefaultsToZero(t *testing.T) {
	cmds := ParseLine("ATI")
	if len(cmds) != 1 || cmds[0].Kind != Info || cmds[0].InfoIndex != "0" {
		t.Fatalf("got %v, want [Info(0)]", cmds)
	}
}

func TestSemicolonSeparatedCommands(t *testing.T) {
	cmds := ParseLine("ATZ;E1")
	if len(cmds) != 2 || cmds[0].Kind != Reset || cmds[1].Kind != SetEcho {
		t.Fatalf("got %v, want [Reset SetEcho]", cmds)
	}
}

func TestNonATLineIsUnknown(t *testing.T) {
	cmds := ParseLine("HELLO")
	if len(cmds) != 1 || cmds[0].Kind != Unknown || cmds[0].Raw != "HELLO" {
		t.Fatalf("got %v, want [Unknown(HELLO)]", cmds)
	}
}

func TestBlankLineParsesToNothing(t *testing.T) {
	if cmds := ParseLine("   "); cmds != nil {
		t.Fatalf("got %v, want nil", cmds)
	}
}

func TestCommandStringRoundTrips(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{Command{Kind: Attention}, "AT"},
		{Command{Kind: Dial, Digits: "5551234"}, "ATD5551234"},
		{Command{Kind: SetEcho, Bool: true}, "ATE1"},
		{Command{Kind: SelectSpeed, Speed: 2400}, "AT+MS=2400"},
		{Command{Kind: SetRegister, Register: 3, Value: 13}, "ATS3=13"},
		{Command{Kind: QueryRegister, Register: 5}, "ATS5?"},
	}
	for _, c := range cases {
		if got := c.cmd.String(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestResponseStrings(t *testing.T) {
	cases := []struct {
		resp Response
		want string
	}{
		{Response{Kind: Ok}, "OK\r\n"},
		{Response{Kind: Error}, "ERROR\r\n"},
		{Response{Kind: Connect, Baud: 1200}, "CONNECT 1200\r\n"},
		{Response{Kind: Ring}, "RING\r\n"},
		{Response{Kind: NoCarrier}, "NO CARRIER\r\n"},
		{Response{Kind: Text, Text: "V.22bis"}, "V.22bis\r\n"},
	}
	for _, c := range cases {
		if got := c.resp.String(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestStreamingParserFeedByByte(t *testing.T) {
	p := NewParser()
	var got []Command
	for _, b := range []byte("ATZ\r\n") {
		if cmds := p.Feed(b); cmds != nil {
			got = append(got, cmds...)
		}
	}
	if len(got) != 1 || got[0].Kind != Reset {
		t.Fatalf("got %v, want [Reset]", got)
	}
}

func TestStreamingParserHandlesLF(t *testing.T) {
	p := NewParser()
	var got []Command
	for _, b := range []byte("ATE1\n") {
		if cmds := p.Feed(b); cmds != nil {
			got = append(got, cmds...)
		}
	}
	if len(got) != 1 || got[0].Kind != SetEcho {
		t.Fatalf("got %v, want [SetEcho]", got)
	}
}
