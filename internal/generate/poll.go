package generate

import (
	"context"
	"time"
)

// poll runs pred at a fixed interval up to attempts times and reports whether
// it ever returned true. Every waiting step in this package goes through this
// one helper so the interval/bound policy lives in a single place. A canceled
// context stops polling early and reports false.
func poll(ctx context.Context, interval time.Duration, attempts int, pred func() bool) bool {
	for i := 0; i < attempts; i++ {
		if pred() {
			return true
		}
		if !sleep(ctx, interval) {
			return false
		}
	}
	return false
}

// sleep pauses for d unless the context is canceled first. Reports whether
// the full duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
