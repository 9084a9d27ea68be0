// internal/driver/epson/codepage.go
package epson

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// unmappable runes are printed as this byte
const replacementByte = '?'

// codePageTables maps ESC t pages to the charmap with the same layout.
// Pages without a table get their bytes passed through.
var codePageTables = map[byte]*charmap.Charmap{
	CodePageCP437:      charmap.CodePage437,
	CodePageCP850:      charmap.CodePage850,
	CodePageCP860:      charmap.CodePage860,
	CodePageCP863:      charmap.CodePage863,
	CodePageCP865:      charmap.CodePage865,
	CodePageWCP1251:    charmap.Windows1251,
	CodePageCP866:      charmap.CodePage866,
	CodePageCP862:      charmap.CodePage862,
	CodePageWCP1252:    charmap.Windows1252,
	CodePageWCP1253:    charmap.Windows1253,
	CodePageCP852:      charmap.CodePage852,
	CodePageCP858:      charmap.CodePage858,
	CodePageISO8859_1:  charmap.ISO8859_1,
	CodePageWCP1257:    charmap.Windows1257,
	CodePageCP855:      charmap.CodePage855,
	CodePageWCP1250:    charmap.Windows1250,
	CodePageWCP1254:    charmap.Windows1254,
	CodePageWCP1255:    charmap.Windows1255,
	CodePageWCP1256:    charmap.Windows1256,
	CodePageWCP1258:    charmap.Windows1258,
	CodePageISO8859_2:  charmap.ISO8859_2,
	CodePageISO8859_3:  charmap.ISO8859_3,
	CodePageISO8859_4:  charmap.ISO8859_4,
	CodePageISO8859_5:  charmap.ISO8859_5,
	CodePageISO8859_6:  charmap.ISO8859_6,
	CodePageISO8859_7:  charmap.ISO8859_7,
	CodePageISO8859_8:  charmap.ISO8859_8,
	CodePageISO8859_9:  charmap.ISO8859_9,
	CodePageISO8859_15: charmap.ISO8859_15,
	CodePageCP874:      charmap.Windows874,
}

// encodeText converts UTF-8 text into single bytes of the given page
func encodeText(page byte, s string) []byte {
	table, ok := codePageTables[page]
	if !ok {
		return []byte(s)
	}

	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if b, ok := table.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, replacementByte)
	}
	return out
}
