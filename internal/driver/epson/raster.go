// internal/driver/epson/raster.go
package epson

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"escpos-printer/internal/bitmap"
)

const (
	// widest row the print head takes, 384 dots
	maxRowBytes = 48
	// DC2 * carries the row count in one byte
	maxChunkRows = 255
)

// Bitmap is a 1 bit per pixel image, row-major, MSB first, each row
// padded to a whole byte. A set bit prints a dot.
type Bitmap struct {
	Width  int
	Height int
	Data   []byte
}

// NewBitmap checks that data covers width x height
func NewBitmap(width, height int, data []byte) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBitmap, width, height)
	}

	b := &Bitmap{Width: width, Height: height, Data: data}
	if need := b.RowBytes() * height; len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBitmap, len(data), need)
	}
	return b, nil
}

// RowBytes returns the padded row stride
func (b *Bitmap) RowBytes() int {
	return (b.Width + 7) / 8
}

// Density selects the ESC * dot density
type Density int

const (
	DensitySingle Density = 1 // 8 dot bands, one byte per column
	DensityDouble Density = 2 // 24 dot bands, three bytes per column
)

// bandLayout returns the ESC * mode, band height and bytes per dot column
func (d Density) bandLayout() (mode byte, bandHeight int, columnBytes int) {
	if d == DensityDouble {
		return 33, 24, 3
	}
	return 0, 8, 1
}

// PrintColumnBitmap prints column-format data with ESC *. data holds
// one band after another; within a band each dot column is one byte
// (single density) or three bytes (double density), top dot in the MSB.
func (p *Printer) PrintColumnBitmap(ctx context.Context, width, height int, data []byte, density Density) error {
	if density != DensitySingle && density != DensityDouble {
		p.logger.Warn("Unknown bitmap density, using single", zap.Int("requested", int(density)))
		density = DensitySingle
	}
	if width <= 0 || height <= 0 || width > 0xFFFF {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBitmap, width, height)
	}

	mode, bandHeight, columnBytes := density.bandLayout()
	bandBytes := width * columnBytes
	bands := (height + bandHeight - 1) / bandHeight
	if need := bands * bandBytes; len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortBitmap, len(data), need)
	}

	if err := p.emitter.Raw(ctx, ESC_POS_COMMANDS.RASTER_PREAMBLE); err != nil {
		return err
	}

	for band := 0; band < bands; band++ {
		payload := make([]byte, 0, 5+bandBytes+1)
		payload = append(payload, ASCII_ESC, '*', mode, byte(width), byte(width>>8))
		payload = append(payload, data[band*bandBytes:(band+1)*bandBytes]...)
		payload = append(payload, ASCII_LF)

		if err := p.emitter.Raw(ctx, payload); err != nil {
			return fmt.Errorf("band %d: %w", band, err)
		}
	}

	if err := p.emitter.Raw(ctx, ESC_POS_COMMANDS.RASTER_POSTAMBLE); err != nil {
		return err
	}
	p.state.newLine()
	return nil
}

// PrintBitmap prints an in-memory bitmap with DC2 *
func (p *Printer) PrintBitmap(ctx context.Context, b *Bitmap) error {
	if need := b.RowBytes() * b.Height; len(b.Data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortBitmap, len(b.Data), need)
	}
	return p.PrintBitmapFrom(ctx, b.Width, b.Height, NewBufferSource(b.Data))
}

// PrintBitmapFrom prints a width x height image read from src with
// DC2 *, at most 255 rows per command. Rows wider than 384 dots are
// clipped: the extra bytes are still drained from src but never sent.
// An empty image sends nothing and only marks the start of a line.
func (p *Printer) PrintBitmapFrom(ctx context.Context, width, height int, src PixelSource) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBitmap, width, height)
	}
	if width == 0 || height == 0 {
		p.state.newLine()
		return nil
	}

	rowBytes := (width + 7) / 8
	rowBytesClipped := rowBytes
	if rowBytesClipped > maxRowBytes {
		rowBytesClipped = maxRowBytes
	}

	for rowStart := 0; rowStart < height; rowStart += maxChunkRows {
		chunkHeight := height - rowStart
		if chunkHeight > maxChunkRows {
			chunkHeight = maxChunkRows
		}

		chunk := make([]byte, 0, chunkHeight*rowBytesClipped)
		for y := 0; y < chunkHeight; y++ {
			for x := 0; x < rowBytes; x++ {
				c, err := src.NextByte(ctx)
				if err != nil {
					return fmt.Errorf("row %d: %w", rowStart+y, err)
				}
				if x < rowBytesClipped {
					chunk = append(chunk, c)
				}
			}
		}

		if err := p.emitter.Command(ctx, ASCII_DC2, '*', byte(chunkHeight), byte(rowBytesClipped)); err != nil {
			return err
		}
		if err := p.emitter.Raw(ctx, chunk); err != nil {
			return err
		}
	}

	p.state.newLine()
	return nil
}

// PrintBitmapStream reads a little-endian width and height header from
// src, then the image itself
func (p *Printer) PrintBitmapStream(ctx context.Context, src PixelSource) error {
	width, err := readUint16(ctx, src)
	if err != nil {
		return fmt.Errorf("bitmap width: %w", err)
	}
	height, err := readUint16(ctx, src)
	if err != nil {
		return fmt.Errorf("bitmap height: %w", err)
	}

	p.logger.Debug("Streamed bitmap header",
		zap.Int("width", width),
		zap.Int("height", height),
	)

	return p.PrintBitmapFrom(ctx, width, height, src)
}

func readUint16(ctx context.Context, src PixelSource) (int, error) {
	lo, err := src.NextByte(ctx)
	if err != nil {
		return 0, err
	}
	hi, err := src.NextByte(ctx)
	if err != nil {
		return 0, err
	}
	return int(lo) | int(hi)<<8, nil
}

// PrintImage scales img to the print head width, dithers it and prints
// it with DC2 *
func (p *Printer) PrintImage(ctx context.Context, img image.Image) error {
	packed, err := bitmap.FromImage(img, bitmap.Options{MaxWidth: maxRowBytes * 8})
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}

	b, err := NewBitmap(packed.Width, packed.Height, packed.Data)
	if err != nil {
		return err
	}
	return p.PrintBitmap(ctx, b)
}

// PrintImageColumns prints img with ESC * at the given density
func (p *Printer) PrintImageColumns(ctx context.Context, img image.Image, density Density) error {
	_, bandHeight, _ := density.bandLayout()

	bands, err := bitmap.ColumnBands(img, bitmap.Options{MaxWidth: maxRowBytes * 8}, bandHeight)
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}
	return p.PrintColumnBitmap(ctx, bands.Width, bands.Height, bands.Data, density)
}
