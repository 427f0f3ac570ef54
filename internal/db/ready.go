package db

import (
	"context"
	"fmt"
	"time"
)

const (
	readyInitialDelay = 50 * time.Millisecond
	readyMaxDelay     = time.Second
)

// WaitForPing pings p until it answers or timeout expires. The delay between
// attempts doubles up to one second.
func WaitForPing(ctx context.Context, p Pinger, backend string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyInitialDelay
	var lastErr error
	for {
		if lastErr = p.Ping(ctx); lastErr == nil {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("timeout waiting for %s: %w (last ping: %v)", backend, ctx.Err(), lastErr)
		case <-timer.C:
		}

		delay *= 2
		if delay > readyMaxDelay {
			delay = readyMaxDelay
		}
	}
}
