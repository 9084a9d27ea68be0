// internal/protocol/rx_buffer.go
package protocol

import (
	"context"
	"errors"
	"io"
	"sync"
)

// rxBuffer collects bytes produced by a background reader so that
// PollByte and Available can answer without blocking.
type rxBuffer struct {
	mutex sync.Mutex
	data  []byte
	err   error
}

func (b *rxBuffer) push(p []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.data = append(b.data, p...)
}

func (b *rxBuffer) fail(err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.err == nil {
		b.err = err
	}
}

func (b *rxBuffer) readByte() (byte, bool, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if len(b.data) == 0 {
		return 0, false, b.err
	}
	c := b.data[0]
	b.data = b.data[1:]
	return c, true, nil
}

func (b *rxBuffer) available() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.data)
}

func (b *rxBuffer) reset() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.data = nil
	b.err = nil
}

// pump copies from r into the buffer until r fails. Read timeouts that
// return (0, nil) are retried; stop ends the loop after the next read.
func (b *rxBuffer) pump(r io.Reader, stop <-chan struct{}, onRead func(n int)) {
	chunk := make([]byte, 256)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := r.Read(chunk)
		if n > 0 {
			b.push(chunk[:n])
			if onRead != nil {
				onRead(n)
			}
		}
		if err != nil {
			select {
			case <-stop:
				return
			default:
			}
			if !errors.Is(err, io.EOF) {
				b.fail(err)
			}
			return
		}
	}
}

// contextPump runs pump over a context-aware read. halt cancels the
// pending read and waits for the loop to exit, so the reader's owner can
// release it afterwards.
type contextPump struct {
	cancel context.CancelFunc
	stop   chan struct{}
	done   chan struct{}
}

func startContextPump(b *rxBuffer, read func(ctx context.Context, p []byte) (int, error), onRead func(n int)) *contextPump {
	ctx, cancel := context.WithCancel(context.Background())
	cp := &contextPump{
		cancel: cancel,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(cp.done)
		b.pump(readerFunc(func(p []byte) (int, error) { return read(ctx, p) }), cp.stop, onRead)
	}()
	return cp
}

func (cp *contextPump) halt() {
	close(cp.stop)
	cp.cancel()
	<-cp.done
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
