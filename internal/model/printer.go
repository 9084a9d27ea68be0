// internal/model/printer.go
package model

import "strings"

// ConnectionType represents how the printer is attached to the host
type ConnectionType string

const (
	ConnectionTypeSerial ConnectionType = "SERIAL"
	ConnectionTypeUSB    ConnectionType = "USB"
	ConnectionTypeTCP    ConnectionType = "TCP"
	ConnectionTypeFile   ConnectionType = "FILE"
)

// ParseConnectionType normalizes a configured connection type name
func ParseConnectionType(s string) ConnectionType {
	return ConnectionType(strings.ToUpper(strings.TrimSpace(s)))
}

// PaperStatus represents the paper sensor state reported by the printer
type PaperStatus string

const (
	PaperStatusOK    PaperStatus = "OK"
	PaperStatusEmpty PaperStatus = "EMPTY"
)
