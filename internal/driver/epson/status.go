// internal/driver/epson/status.go
package epson

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// paper near-end and paper-out sensor bits of the GS r 1 reply
const paperSensorMask = 0x0C

// HasPaper queries the paper sensor and polls for the one byte reply.
// Not every printer answers; when no reply arrives in time the result
// is true, as if the status byte were zero.
func (p *Printer) HasPaper(ctx context.Context) (bool, error) {
	if err := p.emitter.Raw(ctx, ESC_POS_COMMANDS.PAPER_STATUS); err != nil {
		return false, err
	}

	var status byte
	received := false

	for attempt := 0; attempt < p.opts.StatusPollAttempts; attempt++ {
		if p.port.Available() > 0 {
			c, ok, err := p.port.PollByte()
			if err != nil {
				return false, err
			}
			if ok {
				status, received = c, true
				break
			}
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(p.opts.StatusPollInterval):
		}
	}

	if !received {
		p.logger.Debug("No paper status reply, assuming paper present",
			zap.Int("attempts", p.opts.StatusPollAttempts),
			zap.Duration("interval", p.opts.StatusPollInterval),
		)
	}

	return status&paperSensorMask == 0, nil
}
