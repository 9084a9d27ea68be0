// internal/protocol/file_connection.go
package protocol

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"escpos-printer/internal/model"
)

// FileConnection writes the command stream to a character device such as
// /dev/usb/lp0, or to a regular file for capture. It never receives data.
type FileConnection struct {
	config *FileConfig
	file   *os.File
	logger *zap.Logger
	mutex  sync.Mutex
	isOpen bool
	stats  ProtocolStats
}

// NewFileConnection creates a new file connection
func NewFileConnection(config *FileConfig, logger *zap.Logger) *FileConnection {
	return &FileConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "file"),
			zap.String("path", config.Path),
		),
	}
}

// Open opens the target for writing
func (fc *FileConnection) Open(ctx context.Context) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if fc.isOpen {
		return nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if fc.config.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fc.config.Path, flags, 0o644)
	if err != nil {
		fc.logger.Error("Failed to open output file", zap.Error(err))
		return fmt.Errorf("failed to open %s: %w", fc.config.Path, err)
	}

	fc.file = file
	fc.isOpen = true
	fc.stats.IsConnected = true
	fc.stats.LastActivity = time.Now()

	fc.logger.Info("Output file opened successfully", zap.Bool("append", fc.config.Append))
	return nil
}

// Close closes the file
func (fc *FileConnection) Close() error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if !fc.isOpen || fc.file == nil {
		return nil
	}

	if err := fc.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", fc.config.Path, err)
	}

	fc.file = nil
	fc.isOpen = false
	fc.stats.IsConnected = false
	return nil
}

// IsOpen returns whether the file is open
func (fc *FileConnection) IsOpen() bool {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	return fc.isOpen && fc.file != nil
}

// Write appends data to the file
func (fc *FileConnection) Write(ctx context.Context, data []byte) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if !fc.isOpen || fc.file == nil {
		return fmt.Errorf("output file not open")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	startTime := time.Now()
	n, err := fc.file.Write(data)
	if err != nil {
		fc.stats.ErrorCount++
		return fmt.Errorf("failed to write to %s: %w", fc.config.Path, err)
	}

	fc.stats.recordWrite(n, time.Since(startTime))
	return nil
}

// PollByte always reports no data
func (fc *FileConnection) PollByte() (byte, bool, error) {
	return 0, false, nil
}

// Available always reports zero
func (fc *FileConnection) Available() int {
	return 0
}

// GetProtocolType returns the protocol type
func (fc *FileConnection) GetProtocolType() model.ConnectionType {
	return model.ConnectionTypeFile
}

// Stats returns a snapshot of the connection statistics
func (fc *FileConnection) Stats() ProtocolStats {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	return fc.stats
}
