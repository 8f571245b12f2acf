package connector

import (
	"context"
	"log/slog"
	"time"
)

// retryConnect calls connectFn until it succeeds, opts.MaxRetries attempts
// are spent or ctx is done. Delays grow by opts.Backoff (2 when unset).
func retryConnect(ctx context.Context, opts RetryConfig, logger *slog.Logger, connectFn func(context.Context) (Connection, error)) (Connection, error) {
	var err error
	var conn Connection
	delay := opts.BaseDelay
	if delay == 0 {
		delay = time.Second // default
	}
	backoff := opts.Backoff
	if backoff < 1 {
		backoff = 2
	}
	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		conn, err = connectFn(ctx)
		if err == nil {
			return conn, nil
		}
		if i == attempts-1 {
			break
		}
		logger.Warn("connector: connect failed, retrying", "attempt", i+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * backoff)
			if delay > opts.MaxDelay && opts.MaxDelay > 0 {
				delay = opts.MaxDelay
			}
		}
	}
	return nil, err
}
