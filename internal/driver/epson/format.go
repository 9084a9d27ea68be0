// internal/driver/epson/format.go
package epson

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Size is a named character size preset
type Size byte

const (
	SizeSmall  Size = 'S' // standard width and height
	SizeMedium Size = 'M' // double height
	SizeLarge  Size = 'L' // double width and height
)

// ParseSize maps "s", "small", "M", ... to a Size. Anything else is small.
func ParseSize(s string) Size {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return SizeSmall
	}
	return Size(s[0])
}

// Alignment is a justification selector
type Alignment byte

const (
	AlignLeft   Alignment = 'L'
	AlignCenter Alignment = 'C'
	AlignRight  Alignment = 'R'
)

// ParseAlignment maps "left", "c", "RIGHT", ... to an Alignment
func ParseAlignment(s string) Alignment {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return AlignLeft
	}
	return Alignment(s[0])
}

const maxUnderlineWeight = 2

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// setPrintMode sets mask bits and resends the whole mode byte
func (p *Printer) setPrintMode(ctx context.Context, mask byte) error {
	p.state.PrintMode |= mask
	return p.writePrintMode(ctx)
}

// unsetPrintMode clears mask bits and resends the whole mode byte
func (p *Printer) unsetPrintMode(ctx context.Context, mask byte) error {
	p.state.PrintMode &^= mask
	return p.writePrintMode(ctx)
}

func (p *Printer) writePrintMode(ctx context.Context) error {
	if err := p.emitter.Command(ctx, ASCII_ESC, '!', p.state.PrintMode); err != nil {
		return err
	}
	p.state.applyPrintMode()
	return nil
}

func (p *Printer) InverseOn(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_GS, 'B', 1)
}

func (p *Printer) InverseOff(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_GS, 'B', 0)
}

func (p *Printer) UpsideDownOn(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, '{', 1)
}

func (p *Printer) UpsideDownOff(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, '{', 0)
}

// DoubleHeightOn doubles the character cell height to 48 dots
func (p *Printer) DoubleHeightOn(ctx context.Context) error {
	return p.setPrintMode(ctx, DOUBLE_HEIGHT_MASK)
}

func (p *Printer) DoubleHeightOff(ctx context.Context) error {
	return p.unsetPrintMode(ctx, DOUBLE_HEIGHT_MASK)
}

// DoubleWidthOn halves the line to 16 columns
func (p *Printer) DoubleWidthOn(ctx context.Context) error {
	return p.setPrintMode(ctx, DOUBLE_WIDTH_MASK)
}

func (p *Printer) DoubleWidthOff(ctx context.Context) error {
	return p.unsetPrintMode(ctx, DOUBLE_WIDTH_MASK)
}

func (p *Printer) StrikeOn(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, 'G', 1)
}

func (p *Printer) StrikeOff(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, 'G', 0)
}

func (p *Printer) BoldOn(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, 'E', 1)
}

func (p *Printer) BoldOff(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, 'E', 0)
}

// UnderlineOn selects an underline weight: 1 normal, 2 thick.
// Heavier weights are clamped to 2.
func (p *Printer) UnderlineOn(ctx context.Context, weight byte) error {
	if weight > maxUnderlineWeight {
		p.logger.Warn("Underline weight clamped",
			zap.Uint8("requested", weight),
			zap.Int("applied", maxUnderlineWeight),
		)
		weight = maxUnderlineWeight
	}
	return p.emitter.Command(ctx, ASCII_ESC, '-', weight)
}

func (p *Printer) UnderlineOff(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, '-', 0)
}

// Justify sets text alignment. Unrecognized values select left.
func (p *Printer) Justify(ctx context.Context, align Alignment) error {
	var pos byte

	switch Alignment(toUpper(byte(align))) {
	case AlignLeft:
		pos = 0
	case AlignCenter:
		pos = 1
	case AlignRight:
		pos = 2
	default:
		p.logger.Warn("Unknown justification, using left",
			zap.String("requested", string(rune(align))),
		)
	}

	return p.emitter.Command(ctx, ASCII_ESC, 'a', pos)
}

// SetSize selects a named size preset. The printer starts a new line
// whenever the size changes.
func (p *Printer) SetSize(ctx context.Context, size Size) error {
	var (
		value      byte
		charHeight int
		maxColumn  int
	)

	switch Size(toUpper(byte(size))) {
	case SizeMedium:
		value, charHeight, maxColumn = 0x01, doubleCharHeight, normalMaxColumn
	case SizeLarge:
		value, charHeight, maxColumn = 0x11, doubleCharHeight, 64
	default:
		if Size(toUpper(byte(size))) != SizeSmall {
			p.logger.Warn("Unknown size, using small", zap.String("requested", string(rune(size))))
		}
		value, charHeight, maxColumn = 0x00, normalCharHeight, normalMaxColumn
	}

	if err := p.emitter.Command(ctx, ASCII_GS, '!', value); err != nil {
		return err
	}
	p.state.CharHeight = charHeight
	p.state.MaxColumn = maxColumn
	p.state.newLine()
	return nil
}

// SetSizeHW selects explicit height and width multipliers, 0 meaning 1x
// and 7 meaning 8x. Values are masked to three bits.
func (p *Printer) SetSizeHW(ctx context.Context, height, width byte) error {
	height &= 0x07
	width &= 0x07

	if err := p.emitter.Command(ctx, ASCII_GS, '!', width<<3|height); err != nil {
		return err
	}
	p.state.CharHeight = normalCharHeight * (int(height) + 1)
	p.state.MaxColumn = normalMaxColumn / (int(width) + 1)
	p.state.newLine()
	return nil
}

// SetLineHeight sets the line pitch in dots. The printer does not add
// the character height, so values under 24 are raised to 24.
func (p *Printer) SetLineHeight(ctx context.Context, dots int) error {
	if dots < minLineHeight {
		dots = minLineHeight
	}
	if dots > 0xFF {
		p.logger.Warn("Line height clamped", zap.Int("requested", dots), zap.Int("applied", 0xFF))
		dots = 0xFF
	}

	if err := p.emitter.Command(ctx, ASCII_ESC, '3', byte(dots)); err != nil {
		return err
	}
	p.state.LineSpacing = dots - minLineHeight
	return nil
}

// SetCharset selects the international character set, which swaps a
// handful of glyphs in the 0x23..0x7E range
func (p *Printer) SetCharset(ctx context.Context, charset byte) error {
	return p.emitter.Command(ctx, ASCII_ESC, 'R', charset)
}

// SetCodePage selects the glyph table for bytes 0x80..0xFF. Strings
// printed afterwards are encoded for that table.
func (p *Printer) SetCodePage(ctx context.Context, page byte) error {
	if err := p.emitter.Command(ctx, ASCII_ESC, 't', page); err != nil {
		return err
	}
	p.state.CodePage = page
	return nil
}

// SetCharSpacing sets the extra right-side spacing of each character
func (p *Printer) SetCharSpacing(ctx context.Context, dots byte) error {
	return p.emitter.Command(ctx, ASCII_ESC, ' ', dots)
}

// SetBarcodeHeight records the barcode height in dots, at least 1.
// GS h is only sent when Options.EmitBarcodeHeight is set.
func (p *Printer) SetBarcodeHeight(ctx context.Context, dots int) error {
	if dots < 1 {
		dots = 1
	}
	if dots > 0xFF {
		dots = 0xFF
	}

	if p.opts.EmitBarcodeHeight {
		if err := p.emitter.Command(ctx, ASCII_GS, 'h', byte(dots)); err != nil {
			return err
		}
	}
	p.state.BarcodeHeight = dots
	return nil
}

// Feed advances the paper by whole lines
func (p *Printer) Feed(ctx context.Context, lines byte) error {
	if err := p.emitter.Command(ctx, ASCII_ESC, 'd', lines); err != nil {
		return err
	}
	p.state.newLine()
	return nil
}

// FeedRows advances the paper by individual dot rows
func (p *Printer) FeedRows(ctx context.Context, rows byte) error {
	if err := p.emitter.Command(ctx, ASCII_ESC, 'J', rows); err != nil {
		return err
	}
	p.state.newLine()
	return nil
}

// Flush sends a form feed
func (p *Printer) Flush(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_FF)
}

// Tab moves to the next tab stop. Stops sit every four columns.
func (p *Printer) Tab(ctx context.Context) error {
	if err := p.emitter.Command(ctx, ASCII_TAB); err != nil {
		return err
	}

	p.state.Column = (p.state.Column + 4) &^ 3
	if p.state.Column >= p.state.MaxColumn {
		p.state.newLine()
		return nil
	}
	p.state.PrevByte = ASCII_TAB
	return nil
}
