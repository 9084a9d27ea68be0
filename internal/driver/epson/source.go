// internal/driver/epson/source.go
package epson

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// PixelSource yields bitmap bytes one at a time, in order. NextByte
// may block until a byte is available or ctx is done.
type PixelSource interface {
	NextByte(ctx context.Context) (byte, error)
}

// BufferSource reads from an in-memory buffer
type BufferSource struct {
	data []byte
	pos  int
}

// NewBufferSource creates a source over data. The slice is not copied.
func NewBufferSource(data []byte) *BufferSource {
	return &BufferSource{data: data}
}

func (s *BufferSource) NextByte(ctx context.Context) (byte, error) {
	if s.pos >= len(s.data) {
		return 0, ErrSourceExhausted
	}
	c := s.data[s.pos]
	s.pos++
	return c, nil
}

// Remaining returns how many bytes have not been read yet
func (s *BufferSource) Remaining() int {
	return len(s.data) - s.pos
}

// ReaderSource reads from a blocking io.Reader such as a pipe or stdin
type ReaderSource struct {
	reader *bufio.Reader
}

// NewReaderSource creates a buffered source over r
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{reader: bufio.NewReader(r)}
}

func (s *ReaderSource) NextByte(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c, err := s.reader.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrSourceExhausted
		}
		return 0, fmt.Errorf("read pixel byte: %w", err)
	}
	return c, nil
}

// ByteReceiver is a non-blocking byte input; protocol.Port satisfies it
type ByteReceiver interface {
	PollByte() (byte, bool, error)
}

// PollingSource waits on a non-blocking receiver, checking every
// interval. A zero timeout waits until ctx is done.
type PollingSource struct {
	receiver ByteReceiver
	interval time.Duration
	timeout  time.Duration
}

// NewPollingSource creates a source polling receiver every interval
func NewPollingSource(receiver ByteReceiver, interval, timeout time.Duration) *PollingSource {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &PollingSource{
		receiver: receiver,
		interval: interval,
		timeout:  timeout,
	}
}

func (s *PollingSource) NextByte(ctx context.Context) (byte, error) {
	var deadline time.Time
	if s.timeout > 0 {
		deadline = time.Now().Add(s.timeout)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		c, ok, err := s.receiver.PollByte()
		if err != nil {
			return 0, fmt.Errorf("poll pixel byte: %w", err)
		}
		if ok {
			return c, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return 0, ErrByteTimeout
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}
