package geoproc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
)

// initialBackoff is the delay before the second attempt. Subsequent
// delays double: 2s, 4s, 8s, ... up to Config.MaxBackoff. No jitter is
// applied, so retry schedules are exactly reproducible.
const initialBackoff = 2 * time.Second

// sleepFunc waits for the given duration or until the context is done.
// Swapped for a recording fake in tests.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// executeWithRetry runs op up to MaxRetries times total, sleeping with
// exponential backoff between attempts. It returns op's result on the
// first success.
//
// Application-level failures (ApplicationError) short-circuit without a
// retry; every other failure is treated as transient. After exhaustion,
// a typed connector error is returned unchanged with the attempt count
// recorded, and any other error is wrapped into a TransportError whose
// message carries the attempt count and the underlying text.
//
// op must be idempotent: the executor provides no deduplication, so an
// operation with non-idempotent remote side effects is not safe to pass
// here.
func (c *Connector) executeWithRetry(ctx context.Context, algorithm string, op func() (*Envelope, error)) (*Envelope, error) {
	strategy := &backoff.Backoff{
		Min:    initialBackoff,
		Max:    c.cfg.MaxBackoff,
		Factor: 2,
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Message: "request cancelled", Attempts: attempt - 1, Cause: err}
		}

		env, err := op()
		if err == nil {
			return env, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if attempt == c.cfg.MaxRetries {
			break
		}

		delay := strategy.Duration()
		c.logger.Debug("retrying geoprocessing request",
			"algorithm", algorithm,
			"attempt", attempt,
			"max_retries", c.cfg.MaxRetries,
			"backoff", delay,
			"error", err)
		recordRetry(algorithm, delay)

		if err := c.sleep(ctx, delay); err != nil {
			return nil, &TransportError{Message: "request cancelled during backoff", Attempts: attempt, Cause: err}
		}
	}

	var te *TransportError
	if errors.As(lastErr, &te) {
		te.Attempts = c.cfg.MaxRetries
		return nil, lastErr
	}
	return nil, &TransportError{
		Message:  fmt.Sprintf("request failed after %d attempts: %s", c.cfg.MaxRetries, lastErr),
		Attempts: c.cfg.MaxRetries,
		Cause:    lastErr,
	}
}
