package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxAttempts bounds transient-failure retries: the first call
// plus two retries.
const DefaultMaxAttempts = 3

// Policy configures bounded exponential backoff for transient
// operations such as object-store uploads.
type Policy struct {
	MaxAttempts uint64
	MinWait     time.Duration
	MaxWait     time.Duration
	Logger      *slog.Logger
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		MinWait:     500 * time.Millisecond,
		MaxWait:     10 * time.Second,
	}
}

// Permanent wraps an error so Do stops retrying immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op under the policy, retrying with exponential backoff until
// it succeeds, returns a permanent error, the attempt budget is spent,
// or ctx is done. The returned error is the last error from op.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.MinWait <= 0 {
		p.MinWait = 500 * time.Millisecond
	}
	if p.MaxWait <= 0 {
		p.MaxWait = 10 * time.Second
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.MinWait
	eb.MaxInterval = p.MaxWait
	eb.MaxElapsedTime = 0 // bounded by attempts, not wall clock

	attempt := 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxAttempts-1), ctx)
	err := backoff.RetryNotify(func() error {
		attempt++
		return op()
	}, b, func(err error, wait time.Duration) {
		logger.Warn("retry.attempt_failed",
			"op", name,
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
	})
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		return err
	}
	return nil
}
