// Package wait polls a condition until it holds or a deadline passes.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the condition never held within the timeout
var ErrTimeout = errors.New("timed out waiting for condition")

// Condition reports whether the awaited state has been reached. A non-nil
// error aborts the wait immediately.
type Condition func(ctx context.Context) (bool, error)

// Until polls cond every interval until it returns true, returns an error,
// the timeout elapses, or ctx is cancelled. cond is always evaluated at least
// once, and once more right at the deadline.
func Until(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempts := 0
	for {
		attempts++
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("wait cancelled: %w", ctx.Err())
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w after %v (%d attempts)", ErrTimeout, timeout, attempts)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
