// internal/driver/epson/text.go
package epson

import (
	"context"
	"fmt"
)

// Emit sends one text byte and tracks the column. DC3 is swallowed but
// still counts as handled, so the result is always 1 on success.
func (p *Printer) Emit(ctx context.Context, c byte) (int, error) {
	if c == ASCII_DC3 {
		return 1, nil
	}

	if err := p.emitter.Raw(ctx, []byte{c}); err != nil {
		return 0, err
	}
	p.state.advance(c)
	return 1, nil
}

// Write implements io.Writer over the text path
func (p *Printer) Write(data []byte) (int, error) {
	return p.WriteContext(context.Background(), data)
}

// WriteContext sends text bytes in a single transport write. The state
// advances exactly as if every byte went through Emit, and only once
// the write has succeeded.
func (p *Printer) WriteContext(ctx context.Context, data []byte) (int, error) {
	out := make([]byte, 0, len(data))
	next := p.state

	for _, c := range data {
		if c == ASCII_DC3 {
			continue
		}
		out = append(out, c)
		next.advance(c)
	}

	if err := p.emitter.Raw(ctx, out); err != nil {
		return 0, err
	}
	p.state = next
	return len(data), nil
}

// Print encodes s for the selected code page and writes it
func (p *Printer) Print(ctx context.Context, s string) error {
	_, err := p.WriteContext(ctx, encodeText(p.state.CodePage, s))
	return err
}

// Println prints s followed by a line feed
func (p *Printer) Println(ctx context.Context, s string) error {
	return p.Print(ctx, s+"\n")
}

// Printf formats according to a format specifier and prints the result
func (p *Printer) Printf(ctx context.Context, format string, args ...interface{}) error {
	return p.Print(ctx, fmt.Sprintf(format, args...))
}
