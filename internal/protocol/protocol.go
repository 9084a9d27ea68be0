// internal/protocol/protocol.go
package protocol

import (
	"context"
	"time"

	"escpos-printer/internal/model"
)

// Port is the byte sink/source the ESC/POS encoder writes commands to.
// Write either delivers the whole buffer or fails; PollByte never blocks.
type Port interface {
	Write(ctx context.Context, data []byte) error
	PollByte() (byte, bool, error)
	Available() int
}

// DeviceProtocol represents a communication channel to a printer
type DeviceProtocol interface {
	Port

	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Protocol information
	GetProtocolType() model.ConnectionType
	Stats() ProtocolStats
}

// ProtocolStats provides protocol-level statistics
type ProtocolStats struct {
	BytesWritten   int64         `json:"bytes_written"`
	BytesRead      int64         `json:"bytes_read"`
	OperationCount int64         `json:"operation_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}

// recordWrite updates counters after a successful write
func (s *ProtocolStats) recordWrite(n int, latency time.Duration) {
	s.BytesWritten += int64(n)
	s.OperationCount++
	s.LastActivity = time.Now()
	if s.AverageLatency == 0 {
		s.AverageLatency = latency
	} else {
		s.AverageLatency = (s.AverageLatency + latency) / 2
	}
}
