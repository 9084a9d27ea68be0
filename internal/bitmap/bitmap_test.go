package bitmap

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func twoColor(w, h int, black func(x, y int) bool) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.White, color.Black})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if black(x, y) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}

func TestPackRows(t *testing.T) {
	// first and last column black, 10 wide so rows pad to 2 bytes
	img := twoColor(10, 2, func(x, y int) bool { return x == 0 || x == 9 })

	packed := PackRows(img)
	if packed.Width != 10 || packed.Height != 2 {
		t.Fatalf("size = %dx%d", packed.Width, packed.Height)
	}
	want := []byte{0x80, 0x40, 0x80, 0x40}
	if string(packed.Data) != string(want) {
		t.Errorf("data = % x, want % x", packed.Data, want)
	}
}

func TestPackColumns(t *testing.T) {
	// only the top row black, 3 rows tall, 8 dot bands
	img := twoColor(2, 3, func(x, y int) bool { return y == 0 })

	packed := PackColumns(img, 8)
	want := []byte{0x80, 0x80}
	if string(packed.Data) != string(want) {
		t.Errorf("data = % x, want % x", packed.Data, want)
	}

	// 24 dot bands use three bytes per column, second byte covers rows 8..15
	img = twoColor(1, 10, func(x, y int) bool { return y == 8 || y == 9 })
	packed = PackColumns(img, 24)
	want = []byte{0x00, 0xC0, 0x00}
	if string(packed.Data) != string(want) {
		t.Errorf("data = % x, want % x", packed.Data, want)
	}
}

func TestFromImageScalesDown(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 500))

	packed, err := FromImage(src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if packed.Width != DefaultMaxWidth || packed.Height != 192 {
		t.Errorf("size = %dx%d, want 384x192", packed.Width, packed.Height)
	}
	if len(packed.Data) != 48*192 {
		t.Errorf("data = %d bytes", len(packed.Data))
	}
	// fully transparent source prints nothing
	for _, b := range packed.Data {
		if b != 0 {
			t.Fatalf("transparent image printed ink")
		}
	}
}

func TestFromImageKeepsSmallImages(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 20, 5))

	packed, err := FromImage(src, Options{MaxWidth: 384, Gamma: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if packed.Width != 20 || packed.Height != 5 {
		t.Errorf("size = %dx%d", packed.Width, packed.Height)
	}
	// black stays black under any gamma
	for y := 0; y < 5; y++ {
		if packed.Data[y*3] != 0xFF || packed.Data[y*3+2] != 0xF0 {
			t.Errorf("row %d = % x", y, packed.Data[y*3:y*3+3])
		}
	}
}

func TestRenderDithersMidGray(t *testing.T) {
	src := image.NewUniform(color.Gray{Y: 128})
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, src.C)
		}
	}

	out, err := Render(img, Options{})
	if err != nil {
		t.Fatal(err)
	}

	black := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if out.ColorIndexAt(x, y) == uint8(out.Palette.Index(color.Black)) {
				black++
			}
		}
	}
	// a mix of ink and paper, not a solid fill
	if black == 0 || black == 64*64 {
		t.Errorf("black dots = %d of %d", black, 64*64)
	}
}

func TestEmptyImage(t *testing.T) {
	if _, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 0)), Options{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("err = %v", err)
	}
	if _, err := ColumnBands(image.NewGray(image.Rect(0, 0, 4, 4)), Options{}, 12); err == nil {
		t.Errorf("band height 12 accepted")
	}
}
