// internal/driver/epson/errors.go
package epson

import "errors"

var (
	// ErrShortBitmap is returned when a bitmap buffer holds fewer bytes
	// than its declared width and height require
	ErrShortBitmap = errors.New("bitmap buffer shorter than declared geometry")

	// ErrInvalidBitmap is returned for non-positive or oversized dimensions
	ErrInvalidBitmap = errors.New("invalid bitmap dimensions")

	// ErrSourceExhausted is returned when a pixel source ends before the
	// declared image does
	ErrSourceExhausted = errors.New("pixel source exhausted")

	// ErrByteTimeout is returned by a polling source that gave up waiting
	ErrByteTimeout = errors.New("timed out waiting for byte")

	// ErrUnknownBarcode is returned for a symbology outside 65..78
	ErrUnknownBarcode = errors.New("unknown barcode type")
)
