// internal/bitmap/bitmap.go
package bitmap

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// DefaultMaxWidth is the print head width of a 58mm printer in dots
const DefaultMaxWidth = 384

// ErrEmptyImage is returned for images with no pixels
var ErrEmptyImage = errors.New("image has no pixels")

// Options controls how an image is prepared for a 1 bit print head
type Options struct {
	// MaxWidth in dots, wider images are scaled down keeping aspect
	MaxWidth int
	// Gamma applied to gray levels before dithering, 0 or 1 leaves
	// them unchanged. Values below 1 lighten the print.
	Gamma float64
}

// Packed is a 1 bit per pixel image. Layout depends on the producer:
// FromImage packs rows, ColumnBands packs bands of dot columns.
type Packed struct {
	Width  int
	Height int
	Data   []byte
}

// Render scales and dithers img down to two colors
func Render(img image.Image, opts Options) (*image.Paletted, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	width := bounds.Dx()
	if width > maxWidth {
		width = maxWidth
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	scaledBounds := image.Rect(0, 0, width, height)
	scaled := image.NewRGBA(scaledBounds)
	// transparent areas print as paper
	draw.Draw(scaled, scaledBounds, image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(scaled, scaledBounds, img, bounds, draw.Over, nil)

	gray := image.NewGray16(scaledBounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.Gray16Model.Convert(scaled.At(x, y)).(color.Gray16)
			if opts.Gamma > 0 && opts.Gamma != 1 {
				v := math.Pow(float64(g.Y)/float64(0xFFFF), opts.Gamma)
				g.Y = uint16(v * float64(0xFFFF))
			}
			gray.SetGray16(x, y, g)
		}
	}

	ditherer := dither.NewDitherer([]color.Color{color.Black, color.White})
	ditherer.Matrix = dither.FloydSteinberg
	ditherer.Serpentine = true

	return ditherer.DitherPaletted(gray), nil
}

// FromImage renders img and packs it row by row, MSB first, each row
// padded to a whole byte. Black pixels are set bits.
func FromImage(img image.Image, opts Options) (*Packed, error) {
	paletted, err := Render(img, opts)
	if err != nil {
		return nil, err
	}
	return PackRows(paletted), nil
}

// PackRows packs a two color image row by row
func PackRows(img *image.Paletted) *Packed {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rowBytes := (width + 7) / 8
	ink := inkIndex(img.Palette)

	data := make([]byte, rowBytes*height)
	for y := 0; y < height; y++ {
		row := data[y*rowBytes : (y+1)*rowBytes]
		for x := 0; x < width; x++ {
			if img.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y) == ink {
				row[x/8] |= 0x80 >> uint(x%8)
			}
		}
	}

	return &Packed{Width: width, Height: height, Data: data}
}

// ColumnBands renders img and packs it into bands of bandHeight rows.
// Within a band every dot column takes bandHeight/8 bytes, top dot in
// the MSB of the first byte; rows past the image bottom are blank.
func ColumnBands(img image.Image, opts Options, bandHeight int) (*Packed, error) {
	if bandHeight <= 0 || bandHeight%8 != 0 {
		return nil, errors.New("band height must be a positive multiple of 8")
	}

	paletted, err := Render(img, opts)
	if err != nil {
		return nil, err
	}
	return PackColumns(paletted, bandHeight), nil
}

// PackColumns packs a two color image into column bands
func PackColumns(img *image.Paletted, bandHeight int) *Packed {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	columnBytes := bandHeight / 8
	bands := (height + bandHeight - 1) / bandHeight
	ink := inkIndex(img.Palette)

	data := make([]byte, 0, bands*width*columnBytes)
	for band := 0; band < bands; band++ {
		for x := 0; x < width; x++ {
			for b := 0; b < columnBytes; b++ {
				var out byte
				for bit := 0; bit < 8; bit++ {
					y := band*bandHeight + b*8 + bit
					out <<= 1
					if y < height && img.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y) == ink {
						out |= 1
					}
				}
				data = append(data, out)
			}
		}
	}

	return &Packed{Width: width, Height: height, Data: data}
}

// inkIndex returns the palette index that prints a dot
func inkIndex(palette color.Palette) uint8 {
	if len(palette) == 0 {
		return 0
	}
	return uint8(palette.Index(color.Black))
}
