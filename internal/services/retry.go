package services

import (
	"context"
	"fmt"
	"time"
)

var sleep = time.Sleep

// retry calls fn up to attempts times, waiting delay*attempt between tries.
// It stops early when ctx is done.
func retry[T any](ctx context.Context, attempts int, delay time.Duration, onRetry func(attempt int, err error), fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		if attempt == attempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}

		if err := waitFor(ctx, delay*time.Duration(attempt)); err != nil {
			return zero, fmt.Errorf("context cancelled: %w", err)
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
