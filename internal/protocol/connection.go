// internal/protocol/connection.go
package protocol

import "time"

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port     string        `json:"port"`
	BaudRate int           `json:"baud_rate"`
	DataBits int           `json:"data_bits"`
	StopBits int           `json:"stop_bits"`
	Parity   string        `json:"parity"`
	Timeout  time.Duration `json:"timeout"`
}

// USBConfig represents USB connection configuration
type USBConfig struct {
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id"`
	Interface int    `json:"interface"`
	Endpoint  int    `json:"endpoint"`
	// InEndpoint defaults to Endpoint when zero
	InEndpoint int           `json:"in_endpoint"`
	Timeout    time.Duration `json:"timeout"`
}

// TCPConfig represents raw TCP (port 9100) connection configuration
type TCPConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	KeepAlive    bool          `json:"keep_alive"`
	Timeout      time.Duration `json:"timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// FileConfig represents a character device or capture file
type FileConfig struct {
	Path   string `json:"path"`
	Append bool   `json:"append"`
}
