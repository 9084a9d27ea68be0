// internal/driver/epson/emitter.go
package epson

import (
	"context"
	"fmt"

	"escpos-printer/internal/protocol"
	"escpos-printer/internal/utils"
)

// Emitter writes command bytes to the port. Every call is a single
// port write; nothing is buffered and nothing is retried.
type Emitter struct {
	port   protocol.Port
	logger *utils.PrinterLogger
}

// NewEmitter creates an emitter writing to port
func NewEmitter(port protocol.Port, logger *utils.PrinterLogger) *Emitter {
	return &Emitter{
		port:   port,
		logger: logger,
	}
}

// Command writes an opcode with up to three parameter bytes
func (e *Emitter) Command(ctx context.Context, cmd ...byte) error {
	if len(cmd) < 1 || len(cmd) > 4 {
		return fmt.Errorf("command must be 1 to 4 bytes, got %d", len(cmd))
	}
	return e.Raw(ctx, cmd)
}

// Raw writes an arbitrary payload
func (e *Emitter) Raw(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	e.logger.LogCommand(data)

	if err := e.port.Write(ctx, data); err != nil {
		return fmt.Errorf("transport write failed: %w", err)
	}
	return nil
}
