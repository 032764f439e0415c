// Package retrypkg runs operations under a bounded exponential backoff policy.
package retrypkg

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how often and how fast an operation is retried.
type Policy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy is used when a zero Policy is given.
var DefaultPolicy = Policy{
	MaxRetries:      5,
	InitialInterval: 10 * time.Millisecond,
	MaxInterval:     250 * time.Millisecond,
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	if p == (Policy{}) {
		p = DefaultPolicy
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	// The retry count is the only bound.
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// Do calls op until it succeeds, returns an error rejected by retryable,
// the retry budget is spent or ctx is done. The last error of op is returned.
//
// notify, when not nil, is called before each retry.
func Do(ctx context.Context, p Policy, retryable func(error) bool, op func() error, notify func(err error, attempt int)) error {
	attempt := 0

	operation := func() error {
		attempt++

		err := op()
		if err == nil {
			return nil
		}

		if !retryable(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, _ time.Duration) { notify(err, attempt) }
	}

	return backoff.RetryNotify(operation, p.backOff(ctx), onRetry)
}
