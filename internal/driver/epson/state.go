// internal/driver/epson/state.go
package epson

// Character cell geometry for the default 12x24 font on 58mm paper
const (
	normalCharHeight = 24
	doubleCharHeight = 48
	normalMaxColumn  = 32
	doubleMaxColumn  = 16

	minLineHeight        = 24
	defaultLineHeight    = 30
	defaultBarcodeHeight = 50
)

// State is the mutable session state the printer is assumed to be in.
// It is owned by a single Printer and is only changed by the operation
// that emits the matching command.
type State struct {
	PrintMode     byte // ESC ! flags, see the *_MASK constants
	PrevByte      byte // last byte sent, ASCII_LF after any line break
	Column        int  // current text column, always < MaxColumn after a write
	MaxColumn     int  // columns before auto-wrap
	CharHeight    int  // character cell height in dots
	LineSpacing   int  // inter-line spacing in dots
	BarcodeHeight int  // barcode height in dots, at least 1
	CodePage      byte // ESC t page used to encode strings
}

// defaultState matches the printer right after ESC @
func defaultState() State {
	return State{
		PrintMode:     0,
		PrevByte:      ASCII_LF,
		Column:        0,
		MaxColumn:     normalMaxColumn,
		CharHeight:    normalCharHeight,
		LineSpacing:   defaultLineHeight - minLineHeight,
		BarcodeHeight: defaultBarcodeHeight,
		CodePage:      CodePageCP437,
	}
}

// AtLineStart reports whether the next character starts a new line
func (s State) AtLineStart() bool {
	return s.PrevByte == ASCII_LF
}

// newLine records a line break, explicit or implied
func (s *State) newLine() {
	s.Column = 0
	s.PrevByte = ASCII_LF
}

// applyPrintMode derives the cell geometry from the mode bits
func (s *State) applyPrintMode() {
	if s.PrintMode&DOUBLE_HEIGHT_MASK != 0 {
		s.CharHeight = doubleCharHeight
	} else {
		s.CharHeight = normalCharHeight
	}
	if s.PrintMode&DOUBLE_WIDTH_MASK != 0 {
		s.MaxColumn = doubleMaxColumn
	} else {
		s.MaxColumn = normalMaxColumn
	}
}

// advance records one printed character. The character that fills the
// last column ends the line, the same as an explicit line feed.
func (s *State) advance(c byte) {
	if c == ASCII_LF {
		s.newLine()
		return
	}

	s.Column++
	if s.Column >= s.MaxColumn {
		s.newLine()
		return
	}
	s.PrevByte = c
}
