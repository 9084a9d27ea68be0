// internal/driver/epson/command.go
package epson

// ASCII control codes used as ESC/POS command prefixes
const (
	ASCII_TAB byte = '\t' // Horizontal tab
	ASCII_LF  byte = '\n' // Line feed
	ASCII_FF  byte = '\f' // Form feed
	ASCII_DC2 byte = 18   // Device control 2
	ASCII_DC3 byte = 0x13 // Device control 3, dropped by the text path
	ASCII_ESC byte = 27   // Escape
	ASCII_GS  byte = 29   // Group separator
)

// ESC_POS_COMMANDS contains the fixed (parameterless) command sequences
var ESC_POS_COMMANDS = struct {
	INITIALIZE   []byte
	PAPER_STATUS []byte
	TEST_PAGE    []byte

	// Column-format raster framing
	RASTER_PREAMBLE  []byte
	RASTER_POSTAMBLE []byte
}{
	INITIALIZE:   []byte{ASCII_ESC, '@'},                 // ESC @
	PAPER_STATUS: []byte{ASCII_GS, 'r', 1},               // GS r 1
	TEST_PAGE:    []byte{ASCII_GS, '(', 'A', 2, 0, 0, 3}, // GS ( A pL pH n m
	// ESC 3 16 (line spacing 16 dots), ESC U 1 (unidirectional on)
	RASTER_PREAMBLE: []byte{ASCII_ESC, '3', 0x10, ASCII_ESC, 'U', 1},
	// ESC 2 (default line spacing), ESC U 0 (unidirectional off)
	RASTER_POSTAMBLE: []byte{ASCII_ESC, '2', ASCII_ESC, 'U', 0},
}

// Print mode bits for ESC ! n
const (
	INVERSE_MASK       byte = 1 << 1 // Not honored by every firmware, GS B is used instead
	DOUBLE_HEIGHT_MASK byte = 1 << 4
	DOUBLE_WIDTH_MASK  byte = 1 << 5
	UNDERLINE_MASK     byte = 1 << 7
)

// Character sets for ESC R n
const (
	CharsetUSA             byte = 0
	CharsetFrance          byte = 1
	CharsetGermany         byte = 2
	CharsetUK              byte = 3
	CharsetDenmark1        byte = 4
	CharsetSweden          byte = 5
	CharsetItaly           byte = 6
	CharsetSpain1          byte = 7
	CharsetJapan           byte = 8
	CharsetNorway          byte = 9
	CharsetDenmark2        byte = 10
	CharsetSpain2          byte = 11
	CharsetLatinAmerica    byte = 12
	CharsetKorea           byte = 13
	CharsetSlovenia        byte = 14
	CharsetCroatia         byte = 14
	CharsetChina           byte = 15
	CharsetVietnam         byte = 16
	CharsetArabia          byte = 17
	CharsetIndiaDevanagari byte = 66
	CharsetIndiaBengali    byte = 67
	CharsetIndiaTamil      byte = 68
	CharsetIndiaTelugu     byte = 69
	CharsetIndiaAssamese   byte = 70
	CharsetIndiaOriya      byte = 71
	CharsetIndiaKannada    byte = 72
	CharsetIndiaMalayalam  byte = 73
	CharsetIndiaGujarati   byte = 74
	CharsetIndiaPunjabi    byte = 75
	CharsetIndiaMarathi    byte = 82
)

// Code pages for ESC t n
const (
	CodePageCP437      byte = 0  // USA, Standard Europe
	CodePageKatakana   byte = 1
	CodePageCP850      byte = 2  // Multilingual
	CodePageCP860      byte = 3  // Portuguese
	CodePageCP863      byte = 4  // Canadian-French
	CodePageCP865      byte = 5  // Nordic
	CodePageWCP1251    byte = 6  // Cyrillic
	CodePageCP866      byte = 7  // Cyrillic #2
	CodePageMIK        byte = 8  // Cyrillic/Bulgarian
	CodePageCP755      byte = 9  // East Europe, Latvian 2
	CodePageIran       byte = 10
	CodePageCP862      byte = 15 // Hebrew
	CodePageWCP1252    byte = 16 // Latin 1
	CodePageWCP1253    byte = 17 // Greek
	CodePageCP852      byte = 18 // Latin 2
	CodePageCP858      byte = 19 // Multilingual Latin 1 + Euro
	CodePageIran2      byte = 20
	CodePageLatvian    byte = 21
	CodePageCP864      byte = 22 // Arabic
	CodePageISO8859_1  byte = 23 // West Europe
	CodePageCP737      byte = 24 // Greek
	CodePageWCP1257    byte = 25 // Baltic
	CodePageThai       byte = 26
	CodePageCP720      byte = 27 // Arabic
	CodePageCP855      byte = 28
	CodePageCP857      byte = 29 // Turkish
	CodePageWCP1250    byte = 30 // Central Europe
	CodePageCP775      byte = 31
	CodePageWCP1254    byte = 32 // Turkish
	CodePageWCP1255    byte = 33 // Hebrew
	CodePageWCP1256    byte = 34 // Arabic
	CodePageWCP1258    byte = 35 // Vietnam
	CodePageISO8859_2  byte = 36 // Latin 2
	CodePageISO8859_3  byte = 37 // Latin 3
	CodePageISO8859_4  byte = 38 // Baltic
	CodePageISO8859_5  byte = 39 // Cyrillic
	CodePageISO8859_6  byte = 40 // Arabic
	CodePageISO8859_7  byte = 41 // Greek
	CodePageISO8859_8  byte = 42 // Hebrew
	CodePageISO8859_9  byte = 43 // Turkish
	CodePageISO8859_15 byte = 44 // Latin 9
	CodePageThai2      byte = 45
	CodePageCP856      byte = 46
	CodePageCP874      byte = 47
)
