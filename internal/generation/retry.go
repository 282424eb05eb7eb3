package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// minRetryDelay is the smallest backoff base; go-retry requires a positive base.
const minRetryDelay = time.Millisecond

// RetryPolicy configures how producers retry transient LLM failures.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the first backoff delay; each retry doubles it, with jitter.
	BaseDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
	}
}

// Retry runs op until it succeeds, returns a permanent error (see
// IsPermanent), the context is cancelled, or the retry budget is spent.
// Delays grow exponentially from policy.BaseDelay with up to 50% jitter.
//
// op receives the 1-based attempt number for logging. Exhausted retries are
// reported as ErrTransientFailure wrapping the last error.
func Retry(
	ctx context.Context,
	policy RetryPolicy,
	logger *slog.Logger,
	op func(ctx context.Context, attempt int) error,
) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		logger.WarnContext(ctx, "Invalid max retries value, using default",
			"max_retries", DefaultRetryPolicy().MaxRetries)
		maxRetries = DefaultRetryPolicy().MaxRetries
	}

	base := policy.BaseDelay
	if base < minRetryDelay {
		base = minRetryDelay
	}

	backoff := retry.NewExponential(base)
	backoff = retry.WithJitterPercent(50, backoff)
	backoff = retry.WithMaxRetries(uint64(maxRetries), backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}

		if IsPermanent(err) {
			logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"attempt", attempt,
				"error", err)
			return err
		}

		if ctx.Err() != nil {
			return err
		}

		logger.InfoContext(ctx, "Transient error, scheduling retry",
			"attempt", attempt,
			"max_attempts", maxRetries+1,
			"error", err)
		return retry.RetryableError(err)
	})

	switch {
	case err == nil:
		return nil
	case IsPermanent(err):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(ctx, "Call cancelled during retries", "attempt", attempt, "ctx_err", err)
		return fmt.Errorf("%w: %w", ErrTransientFailure, err)
	case ctx.Err() != nil:
		logger.WarnContext(ctx, "Call cancelled during retries", "attempt", attempt, "ctx_err", ctx.Err())
		return fmt.Errorf("%w: %w: %w", ErrTransientFailure, ctx.Err(), err)
	default:
		logger.WarnContext(ctx, "Maximum retry attempts reached", "attempts", attempt)
		return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %w",
			ErrTransientFailure, maxRetries, err)
	}
}
