package epson

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPrintBitmapClipsWideRows(t *testing.T) {
	const width, height = 400, 10
	rowBytes := (width + 7) / 8

	// every row is 48 bytes of its row number followed by two 0xEE
	// bytes that must never reach the printer
	data := make([]byte, 0, rowBytes*height)
	for y := 0; y < height; y++ {
		data = append(data, bytes.Repeat([]byte{byte(y)}, 48)...)
		data = append(data, 0xEE, 0xEE)
	}

	p, port := newTestPrinter(t, Options{})
	bmp, err := NewBitmap(width, height, data)
	if err != nil {
		t.Fatal(err)
	}
	src := NewBufferSource(bmp.Data)
	if err := p.PrintBitmapFrom(context.Background(), width, height, src); err != nil {
		t.Fatal(err)
	}

	if src.Remaining() != 0 {
		t.Errorf("%d source bytes left unread", src.Remaining())
	}
	if len(port.writes) != 2 {
		t.Fatalf("writes = %d, want header and data", len(port.writes))
	}
	if want := []byte{ASCII_DC2, '*', height, 48}; !bytes.Equal(port.writes[0], want) {
		t.Errorf("header = % x, want % x", port.writes[0], want)
	}

	payload := port.writes[1]
	if len(payload) != height*48 {
		t.Fatalf("payload = %d bytes, want %d", len(payload), height*48)
	}
	if bytes.IndexByte(payload, 0xEE) >= 0 {
		t.Errorf("clipped bytes were sent")
	}
	for y := 0; y < height; y++ {
		if payload[y*48] != byte(y) || payload[y*48+47] != byte(y) {
			t.Errorf("row %d misaligned", y)
		}
	}
	if s := p.State(); !s.AtLineStart() || s.Column != 0 {
		t.Errorf("state = %+v", s)
	}
}

func TestPrintBitmapChunks(t *testing.T) {
	const width, height = 16, 600
	data := make([]byte, 2*height)

	p, port := newTestPrinter(t, Options{})
	bmp, err := NewBitmap(width, height, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.PrintBitmap(context.Background(), bmp); err != nil {
		t.Fatal(err)
	}

	wantHeights := []byte{255, 255, 90}
	if len(port.writes) != 2*len(wantHeights) {
		t.Fatalf("writes = %d", len(port.writes))
	}
	for i, h := range wantHeights {
		header := port.writes[2*i]
		if !bytes.Equal(header, []byte{ASCII_DC2, '*', h, 2}) {
			t.Errorf("chunk %d header = % x", i, header)
		}
		if got := len(port.writes[2*i+1]); got != int(h)*2 {
			t.Errorf("chunk %d payload = %d bytes, want %d", i, got, int(h)*2)
		}
	}
}

func TestPrintBitmapRoundsRowUp(t *testing.T) {
	p, port := newTestPrinter(t, Options{})

	bmp, err := NewBitmap(9, 1, []byte{0xFF, 0x80})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.PrintBitmap(context.Background(), bmp); err != nil {
		t.Fatal(err)
	}
	want := []byte{ASCII_DC2, '*', 1, 2, 0xFF, 0x80}
	if got := port.bytes(); !bytes.Equal(got, want) {
		t.Errorf("bytes = % x, want % x", got, want)
	}
}

func TestNewBitmapValidates(t *testing.T) {
	if _, err := NewBitmap(0, 4, nil); !errors.Is(err, ErrInvalidBitmap) {
		t.Errorf("zero width: err = %v", err)
	}
	if _, err := NewBitmap(8, 4, make([]byte, 3)); !errors.Is(err, ErrShortBitmap) {
		t.Errorf("short buffer: err = %v", err)
	}
}

func TestPrintBitmapShortSource(t *testing.T) {
	p, _ := newTestPrinter(t, Options{})

	err := p.PrintBitmapFrom(context.Background(), 8, 4, NewBufferSource([]byte{1, 2}))
	if !errors.Is(err, ErrSourceExhausted) {
		t.Errorf("err = %v, want ErrSourceExhausted", err)
	}
}

func TestPrintBitmapStream(t *testing.T) {
	// 0x0190 = 400 wide, 0x0002 = 2 high
	stream := []byte{0x90, 0x01, 0x02, 0x00}
	stream = append(stream, bytes.Repeat([]byte{0xAA}, 50)...)
	stream = append(stream, bytes.Repeat([]byte{0x55}, 50)...)

	p, port := newTestPrinter(t, Options{})
	if err := p.PrintBitmapStream(context.Background(), NewReaderSource(bytes.NewReader(stream))); err != nil {
		t.Fatal(err)
	}

	if want := []byte{ASCII_DC2, '*', 2, 48}; !bytes.Equal(port.writes[0], want) {
		t.Errorf("header = % x, want % x", port.writes[0], want)
	}
	want := append(bytes.Repeat([]byte{0xAA}, 48), bytes.Repeat([]byte{0x55}, 48)...)
	if !bytes.Equal(port.writes[1], want) {
		t.Errorf("payload mismatch")
	}
}

func TestPrintBitmapStreamTruncatedHeader(t *testing.T) {
	p, port := newTestPrinter(t, Options{})

	err := p.PrintBitmapStream(context.Background(), NewReaderSource(bytes.NewReader([]byte{8, 0, 1})))
	if !errors.Is(err, ErrSourceExhausted) {
		t.Errorf("err = %v", err)
	}
	if len(port.writes) != 0 {
		t.Errorf("wrote % x", port.bytes())
	}
}

func TestPrintBitmapStreamEmptyImage(t *testing.T) {
	for _, header := range [][]byte{{0, 0, 4, 0}, {16, 0, 0, 0}} {
		p, port := newTestPrinter(t, Options{})
		ctx := context.Background()
		if err := p.Print(ctx, "ab"); err != nil {
			t.Fatal(err)
		}
		port.reset()

		if err := p.PrintBitmapStream(ctx, NewReaderSource(bytes.NewReader(header))); err != nil {
			t.Fatalf("header % x: %v", header, err)
		}
		if len(port.writes) != 0 {
			t.Errorf("header % x: wrote % x", header, port.bytes())
		}
		if st := p.State(); st.Column != 0 || st.PrevByte != ASCII_LF {
			t.Errorf("header % x: state not at line start: %+v", header, st)
		}
	}

	p, _ := newTestPrinter(t, Options{})
	if err := p.PrintBitmapFrom(context.Background(), -1, 4, NewBufferSource(nil)); !errors.Is(err, ErrInvalidBitmap) {
		t.Errorf("negative width: err = %v", err)
	}
}

func TestPrintColumnBitmap(t *testing.T) {
	tests := []struct {
		name    string
		density Density
		width   int
		height  int
		mode    byte
		bands   int
		perBand int
	}{
		{"single", DensitySingle, 4, 16, 0, 2, 4},
		{"single partial band", DensitySingle, 3, 9, 0, 2, 3},
		{"double", DensityDouble, 2, 24, 33, 1, 6},
		{"double partial band", DensityDouble, 2, 30, 33, 2, 6},
		{"unknown density", Density(7), 4, 8, 0, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.bands*tt.perBand)
			for i := range data {
				data[i] = byte(i + 1)
			}

			p, port := newTestPrinter(t, Options{})
			if err := p.PrintColumnBitmap(context.Background(), tt.width, tt.height, data, tt.density); err != nil {
				t.Fatal(err)
			}

			var want []byte
			want = append(want, ASCII_ESC, '3', 0x10, ASCII_ESC, 'U', 1)
			for b := 0; b < tt.bands; b++ {
				want = append(want, ASCII_ESC, '*', tt.mode, byte(tt.width), byte(tt.width>>8))
				want = append(want, data[b*tt.perBand:(b+1)*tt.perBand]...)
				want = append(want, '\n')
			}
			want = append(want, ASCII_ESC, '2', ASCII_ESC, 'U', 0)

			if got := port.bytes(); !bytes.Equal(got, want) {
				t.Errorf("bytes = % x\nwant   % x", got, want)
			}
			if !p.State().AtLineStart() {
				t.Errorf("not at line start")
			}
		})
	}
}

func TestPrintColumnBitmapShortBuffer(t *testing.T) {
	p, port := newTestPrinter(t, Options{})

	err := p.PrintColumnBitmap(context.Background(), 10, 16, make([]byte, 15), DensitySingle)
	if !errors.Is(err, ErrShortBitmap) {
		t.Errorf("err = %v, want ErrShortBitmap", err)
	}
	if len(port.writes) != 0 {
		t.Errorf("wrote before validating")
	}
}

func TestPrintImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 800, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 800; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	p, port := newTestPrinter(t, Options{})
	if err := p.PrintImage(context.Background(), img); err != nil {
		t.Fatal(err)
	}

	// 800x20 scales to 384x9
	if want := []byte{ASCII_DC2, '*', 9, 48}; !bytes.Equal(port.writes[0], want) {
		t.Errorf("header = % x, want % x", port.writes[0], want)
	}
	if !bytes.Equal(port.writes[1], bytes.Repeat([]byte{0xFF}, 9*48)) {
		t.Errorf("black image did not print solid")
	}
}

func TestPrintImageColumns(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))

	p, port := newTestPrinter(t, Options{})
	if err := p.PrintImageColumns(context.Background(), img, DensityDouble); err != nil {
		t.Fatal(err)
	}

	band := port.writes[1]
	if want := []byte{ASCII_ESC, '*', 33, 10, 0}; !bytes.Equal(band[:5], want) {
		t.Errorf("band header = % x", band[:5])
	}
	if len(band) != 5+30+1 {
		t.Errorf("band length = %d, want 36", len(band))
	}
}
