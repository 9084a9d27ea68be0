package protocol

import (
	"context"
	"testing"

	"go.bug.st/serial"
	"go.uber.org/zap/zaptest"
)

func TestSerialModeMapping(t *testing.T) {
	parities := map[string]serial.Parity{
		"none":  serial.NoParity,
		"odd":   serial.OddParity,
		"even":  serial.EvenParity,
		"mark":  serial.MarkParity,
		"space": serial.SpaceParity,
		"bogus": serial.NoParity,
	}
	for in, want := range parities {
		if got := parseParity(in); got != want {
			t.Errorf("parseParity(%q) = %v, want %v", in, got, want)
		}
	}

	if parseStopBits(1) != serial.OneStopBit || parseStopBits(2) != serial.TwoStopBits || parseStopBits(0) != serial.OneStopBit {
		t.Errorf("stop bit mapping wrong")
	}
}

func TestSerialWriteRequiresOpen(t *testing.T) {
	sc := NewSerialConnection(&SerialConfig{Port: "/dev/null-printer", BaudRate: 9600}, zaptest.NewLogger(t))

	if sc.IsOpen() {
		t.Fatal("new connection reports open")
	}
	if err := sc.Write(context.Background(), []byte{0x1b, '@'}); err == nil {
		t.Error("write on closed port succeeded")
	}
	if err := sc.Close(); err != nil {
		t.Errorf("closing an unopened port: %v", err)
	}
}
