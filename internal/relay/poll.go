package relay

import (
	"context"
	"time"

	"github.com/ghost-rover/rtcm-relay/internal/monitoring"
)

// DefaultIdleSleep bounds the poll rate on an idle line without adding
// meaningful latency at 57600 baud.
const DefaultIdleSleep = 500 * time.Microsecond

// Poll steps the engine until the context is cancelled. It backs off for the
// idle interval when the line is quiet and also after a failed step, so a
// persistent I/O fault (device unplugged) cannot busy-spin the loop or flood
// the log. A non-positive interval uses the default.
func Poll(ctx context.Context, e *Engine, idle time.Duration) error {
	if idle <= 0 {
		idle = DefaultIdleSleep
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		st, err := e.Step()
		if err != nil {
			monitoring.Logf("relay: %v", err)
			time.Sleep(idle)
			continue
		}
		if st == StepIdle {
			time.Sleep(idle)
		}
	}
}
