package timer

import (
	"context"
	"time"
)

type WakeReason int

const (
	Woken WakeReason = iota
	TimedOut
	Cancelled
)

// Hold blocks for d unless ctx ends first. It reports whether the full duration elapsed.
func Hold(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer stopTimer(t)
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Wait blocks until wake fires, d elapses or ctx ends, whichever comes first.
func Wait(ctx context.Context, wake <-chan struct{}, d time.Duration) WakeReason {
	t := time.NewTimer(d)
	defer stopTimer(t)
	select {
	case <-wake:
		return Woken
	case <-t.C:
		return TimedOut
	case <-ctx.Done():
		return Cancelled
	}
}

// Notify does a non-blocking send on a 1-buffered wake channel. Extra
// notifications collapse into the pending one.
func Notify(wake chan<- struct{}) {
	select {
	case wake <- struct{}{}:
	default:
	}
}

// Stops the timer and drains a pending tick.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
