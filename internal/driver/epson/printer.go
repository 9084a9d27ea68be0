// internal/driver/epson/printer.go
package epson

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"escpos-printer/internal/protocol"
	"escpos-printer/internal/utils"
)

const (
	defaultStatusPollAttempts = 10
	defaultStatusPollInterval = 100 * time.Millisecond
)

// Options tunes behavior that differs between printer firmwares
type Options struct {
	// EmitBarcodeHeight sends GS h n from SetBarcodeHeight. Some
	// firmwares print the parameter as text instead of honoring it.
	EmitBarcodeHeight bool

	// Paper status polling, defaults to 10 attempts 100ms apart
	StatusPollAttempts int
	StatusPollInterval time.Duration
}

// Printer is a single ESC/POS session. It owns the session state and
// is not safe for concurrent use; give each caller its own session or
// serialize access outside.
type Printer struct {
	port    protocol.Port
	emitter *Emitter
	logger  *utils.PrinterLogger
	opts    Options
	state   State
}

// NewPrinter creates a session writing to port. The state assumes a
// freshly reset printer; call Begin or Reset to make that true.
func NewPrinter(port protocol.Port, logger *utils.PrinterLogger, opts Options) *Printer {
	if logger == nil {
		logger = utils.NewPrinterLogger(zap.NewNop(), "", "")
	}
	if opts.StatusPollAttempts <= 0 {
		opts.StatusPollAttempts = defaultStatusPollAttempts
	}
	if opts.StatusPollInterval <= 0 {
		opts.StatusPollInterval = defaultStatusPollInterval
	}

	return &Printer{
		port:    port,
		emitter: NewEmitter(port, logger),
		logger:  logger,
		opts:    opts,
		state:   defaultState(),
	}
}

// State returns a snapshot of the tracked session state
func (p *Printer) State() State {
	return p.state
}

// Begin wakes the printer and resets it. The printer needs about half a
// second after power up before it accepts data; that delay is the
// caller's business.
func (p *Printer) Begin(ctx context.Context) error {
	if err := p.Wake(ctx); err != nil {
		return err
	}
	return p.Reset(ctx)
}

// Reset sends ESC @ and returns the tracked state to power-on defaults
func (p *Printer) Reset(ctx context.Context) error {
	if err := p.emitter.Raw(ctx, ESC_POS_COMMANDS.INITIALIZE); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	p.state = defaultState()
	return nil
}

// SetDefault restores the text formatting defaults one command at a time
func (p *Printer) SetDefault(ctx context.Context) error {
	steps := []func(context.Context) error{
		p.Online,
		func(ctx context.Context) error { return p.Justify(ctx, AlignLeft) },
		p.InverseOff,
		p.DoubleHeightOff,
		func(ctx context.Context) error { return p.SetLineHeight(ctx, defaultLineHeight) },
		p.BoldOff,
		p.UnderlineOff,
		func(ctx context.Context) error { return p.SetBarcodeHeight(ctx, defaultBarcodeHeight) },
		func(ctx context.Context) error { return p.SetSize(ctx, SizeSmall) },
		func(ctx context.Context) error { return p.SetCharset(ctx, CharsetUSA) },
		func(ctx context.Context) error { return p.SetCodePage(ctx, CodePageCP437) },
	}

	for _, step := range steps {
		if err := step(ctx); err != nil {
			return fmt.Errorf("set defaults: %w", err)
		}
	}
	return nil
}

// Normal clears every print mode bit and upside-down printing
func (p *Printer) Normal(ctx context.Context) error {
	p.state.PrintMode = 0
	if err := p.writePrintMode(ctx); err != nil {
		return err
	}
	return p.UpsideDownOff(ctx)
}

// Test prints a one line greeting and feeds two lines
func (p *Printer) Test(ctx context.Context) error {
	if err := p.Println(ctx, "Hello World!"); err != nil {
		return err
	}
	return p.Feed(ctx, 2)
}

// TestPage asks the firmware to print its self test page
func (p *Printer) TestPage(ctx context.Context) error {
	return p.emitter.Raw(ctx, ESC_POS_COMMANDS.TEST_PAGE)
}

// Online makes the printer obey subsequent commands
func (p *Printer) Online(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, '=', 1)
}

// Offline makes the printer ignore print commands until Online
func (p *Printer) Offline(ctx context.Context) error {
	return p.emitter.Command(ctx, ASCII_ESC, '=', 0)
}

// Sleep puts the printer into its low power state right away
func (p *Printer) Sleep(ctx context.Context) error {
	// zero would mean never sleep
	return p.SleepAfter(ctx, 1)
}

// SleepAfter puts the printer into its low power state after seconds
func (p *Printer) SleepAfter(ctx context.Context, seconds uint16) error {
	return p.emitter.Command(ctx, ASCII_ESC, '8', byte(seconds), byte(seconds>>8))
}

// Wake is a no-op: the printer wakes on the next byte it receives
func (p *Printer) Wake(ctx context.Context) error {
	return nil
}
