package epson

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestTextColumnTracking(t *testing.T) {
	p, port := newTestPrinter(t, Options{})
	ctx := context.Background()

	if err := p.Print(ctx, "hello"); err != nil {
		t.Fatal(err)
	}
	s := p.State()
	if s.Column != 5 || s.PrevByte != 'o' || s.AtLineStart() {
		t.Errorf("state after 5 chars = %+v", s)
	}
	if got := port.bytes(); string(got) != "hello" {
		t.Errorf("bytes = %q", got)
	}
}

func TestTextWrapsAtMaxColumn(t *testing.T) {
	p, _ := newTestPrinter(t, Options{})
	ctx := context.Background()

	if err := p.Print(ctx, strings.Repeat("x", 31)); err != nil {
		t.Fatal(err)
	}
	if s := p.State(); s.Column != 31 || s.AtLineStart() {
		t.Fatalf("state after 31 chars = %+v", s)
	}

	if err := p.Print(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if s := p.State(); s.Column != 0 || !s.AtLineStart() {
		t.Errorf("state after 32 chars = %+v", s)
	}

	if err := p.Print(ctx, "ab"); err != nil {
		t.Fatal(err)
	}
	if s := p.State(); s.Column != 2 {
		t.Errorf("column after wrap = %d, want 2", s.Column)
	}
}

func TestTextWrapFollowsDoubleWidth(t *testing.T) {
	p, _ := newTestPrinter(t, Options{})
	ctx := context.Background()

	if err := p.DoubleWidthOn(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.Print(ctx, strings.Repeat("w", 16)); err != nil {
		t.Fatal(err)
	}
	if s := p.State(); s.Column != 0 || !s.AtLineStart() {
		t.Errorf("state after 16 double width chars = %+v", s)
	}
}

func TestNewlineResetsColumn(t *testing.T) {
	p, _ := newTestPrinter(t, Options{})

	if err := p.Println(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
	if s := p.State(); s.Column != 0 || s.PrevByte != ASCII_LF {
		t.Errorf("state = %+v", s)
	}
}

func TestDC3NeverForwarded(t *testing.T) {
	inputs := [][]byte{
		{ASCII_DC3},
		{'a', ASCII_DC3, 'b'},
		{ASCII_DC3, ASCII_DC3, '\n', ASCII_DC3},
		append(bytes.Repeat([]byte{'z'}, 40), ASCII_DC3),
	}

	for i, in := range inputs {
		p, port := newTestPrinter(t, Options{})

		n, err := p.Write(in)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(in) {
			t.Errorf("input %d: n = %d, want %d", i, n, len(in))
		}
		if bytes.IndexByte(port.bytes(), ASCII_DC3) >= 0 {
			t.Errorf("input %d: DC3 forwarded: % x", i, port.bytes())
		}
		want := bytes.ReplaceAll(in, []byte{ASCII_DC3}, nil)
		if !bytes.Equal(port.bytes(), want) {
			t.Errorf("input %d: bytes = % x, want % x", i, port.bytes(), want)
		}
	}
}

func TestEmitCountsDroppedByte(t *testing.T) {
	p, port := newTestPrinter(t, Options{})
	ctx := context.Background()

	n, err := p.Emit(ctx, ASCII_DC3)
	if err != nil || n != 1 {
		t.Errorf("Emit(DC3) = %d, %v", n, err)
	}
	if len(port.writes) != 0 {
		t.Errorf("DC3 reached the port")
	}
	if p.State().Column != 0 {
		t.Errorf("DC3 advanced the column")
	}

	n, err = p.Emit(ctx, 'q')
	if err != nil || n != 1 {
		t.Errorf("Emit(q) = %d, %v", n, err)
	}
	if p.State().Column != 1 || p.State().PrevByte != 'q' {
		t.Errorf("state = %+v", p.State())
	}
}

func TestEmitMatchesWrite(t *testing.T) {
	text := []byte("The quick brown fox jumps over the lazy dog\nand\x13 keeps going past the edge")

	byByte, _ := newTestPrinter(t, Options{})
	for _, c := range text {
		if _, err := byByte.Emit(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}

	batched, port := newTestPrinter(t, Options{})
	if _, err := batched.Write(text); err != nil {
		t.Fatal(err)
	}

	if byByte.State() != batched.State() {
		t.Errorf("states differ: %+v vs %+v", byByte.State(), batched.State())
	}
	if len(port.writes) != 1 {
		t.Errorf("Write used %d transport writes, want 1", len(port.writes))
	}
}

func TestWriteFailureKeepsState(t *testing.T) {
	p, port := newTestPrinter(t, Options{})
	port.failOn = 1

	before := p.State()
	if _, err := p.Write([]byte("abc")); err == nil {
		t.Fatal("expected error")
	}
	if p.State() != before {
		t.Errorf("state changed: %+v", p.State())
	}
}

func TestPrinterIsWriter(t *testing.T) {
	p, port := newTestPrinter(t, Options{})

	var w io.Writer = p
	fmt.Fprintf(w, "total %d\n", 42)

	if got := string(port.bytes()); got != "total 42\n" {
		t.Errorf("bytes = %q", got)
	}
}

func TestTab(t *testing.T) {
	p, port := newTestPrinter(t, Options{})
	ctx := context.Background()

	if err := p.Print(ctx, "ab"); err != nil {
		t.Fatal(err)
	}
	if err := p.Tab(ctx); err != nil {
		t.Fatal(err)
	}
	if p.State().Column != 4 {
		t.Errorf("column = %d, want 4", p.State().Column)
	}
	if err := p.Tab(ctx); err != nil {
		t.Fatal(err)
	}
	if p.State().Column != 8 {
		t.Errorf("column = %d, want 8", p.State().Column)
	}
	if got := port.bytes(); !bytes.Equal(got, []byte{'a', 'b', ASCII_TAB, ASCII_TAB}) {
		t.Errorf("bytes = % x", got)
	}

	for i := 0; i < 6; i++ {
		if err := p.Tab(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if s := p.State(); s.Column != 0 || !s.AtLineStart() {
		t.Errorf("tab past the edge: %+v", s)
	}
}

func TestPrintfAndTest(t *testing.T) {
	p, port := newTestPrinter(t, Options{})
	ctx := context.Background()

	if err := p.Printf(ctx, "%s-%02d", "id", 7); err != nil {
		t.Fatal(err)
	}
	if got := string(port.bytes()); got != "id-07" {
		t.Errorf("printf bytes = %q", got)
	}

	port.reset()
	if err := p.Test(ctx); err != nil {
		t.Fatal(err)
	}
	want := append([]byte("Hello World!\n"), ASCII_ESC, 'd', 2)
	if got := port.bytes(); !bytes.Equal(got, want) {
		t.Errorf("test bytes = % x", got)
	}
}

func TestPrintEncodesCodePage(t *testing.T) {
	tests := []struct {
		name string
		page byte
		text string
		want []byte
	}{
		{"cp437 accents", CodePageCP437, "café", []byte{'c', 'a', 'f', 0x82}},
		{"cp437 box", CodePageCP437, "─", []byte{0xC4}},
		{"cp858 euro", CodePageCP858, "€", []byte{0xD5}},
		{"wcp1252 euro", CodePageWCP1252, "€5", []byte{0x80, '5'}},
		{"cp866 cyrillic", CodePageCP866, "Да", []byte{0x84, 0xA0}},
		{"unmappable", CodePageCP437, "日", []byte{'?'}},
		{"no table", CodePageKatakana, "ab", []byte{'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, port := newTestPrinter(t, Options{})
			ctx := context.Background()

			if err := p.SetCodePage(ctx, tt.page); err != nil {
				t.Fatal(err)
			}
			port.reset()

			if err := p.Print(ctx, tt.text); err != nil {
				t.Fatal(err)
			}
			if got := port.bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("bytes = % x, want % x", got, tt.want)
			}
		})
	}
}
