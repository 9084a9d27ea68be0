// internal/driver/epson/barcode.go
package epson

import (
	"context"
	"fmt"
	"strings"
)

// BarcodeType is a GS k symbology in the function B range
type BarcodeType byte

const (
	BarcodeUPCA BarcodeType = 65 + iota
	BarcodeUPCE
	BarcodeEAN13
	BarcodeEAN8
	BarcodeCode39
	BarcodeITF
	BarcodeCodabar
	BarcodeCode93
	BarcodeCode128
	BarcodeGS1_128
	BarcodeGS1DataBarOmni
	BarcodeGS1DataBarTruncated
	BarcodeGS1DataBarLimited
	BarcodeGS1DataBarExpanded
)

var barcodeNames = map[BarcodeType]string{
	BarcodeUPCA:                "UPC_A",
	BarcodeUPCE:                "UPC_E",
	BarcodeEAN13:               "EAN13",
	BarcodeEAN8:                "EAN8",
	BarcodeCode39:              "CODE39",
	BarcodeITF:                 "ITF",
	BarcodeCodabar:             "CODABAR",
	BarcodeCode93:              "CODE93",
	BarcodeCode128:             "CODE128",
	BarcodeGS1_128:             "GS1_128",
	BarcodeGS1DataBarOmni:      "GS1_DATABAR_OMNI",
	BarcodeGS1DataBarTruncated: "GS1_DATABAR_TRUNC",
	BarcodeGS1DataBarLimited:   "GS1_DATABAR_LIMTD",
	BarcodeGS1DataBarExpanded:  "GS1_DATABAR_EXPAN",
}

func (t BarcodeType) String() string {
	if name, ok := barcodeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BarcodeType(%d)", byte(t))
}

// Valid reports whether t is a known symbology
func (t BarcodeType) Valid() bool {
	_, ok := barcodeNames[t]
	return ok
}

// ParseBarcodeType accepts the names returned by String, with or
// without the underscore ("ean13", "UPC-A", "upc_a")
func ParseBarcodeType(s string) (BarcodeType, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToUpper(s))
	for t, name := range barcodeNames {
		if strings.ReplaceAll(name, "_", "") == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBarcode, s)
}

// PrintBarcode prints text as a barcode with the label underneath.
// Text must not contain NUL; it terminates the data on the wire.
func (p *Printer) PrintBarcode(ctx context.Context, text string, barcodeType BarcodeType) error {
	if !barcodeType.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBarcode, byte(barcodeType))
	}
	if strings.IndexByte(text, 0) >= 0 {
		return fmt.Errorf("barcode text contains NUL")
	}

	// some firmwares drop a barcode that does not follow a feed
	if err := p.Feed(ctx, 1); err != nil {
		return err
	}
	if err := p.emitter.Command(ctx, ASCII_GS, 'H', 2); err != nil { // label below
		return err
	}
	if err := p.emitter.Command(ctx, ASCII_GS, 'w', 3); err != nil { // module width
		return err
	}
	if err := p.emitter.Command(ctx, ASCII_GS, 'k', byte(barcodeType)); err != nil {
		return err
	}

	payload := append([]byte(text), 0)
	if err := p.emitter.Raw(ctx, payload); err != nil {
		return err
	}
	p.state.newLine()
	return nil
}
