package gemx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// Default parameters for the ExponentialBackOff if no base policy is provided by the user.
	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxInterval     = 15 * time.Second
	// Default MaxElapsedTime if the user provides no retry options that override it.
	defaultRetryMaxElapsedTime = 1 * time.Minute
)

// A Retrier re-issues API calls according to a backoff policy. It retries on
// transient failures only:
//   - [RateLimitErr]
//   - [ApiErr] with HTTP status code 429 (Too Many Requests)
//   - [ApiErr] with HTTP status codes 5xx (Server Errors)
//   - context.DeadlineExceeded from the call itself (not the overall context)
//
// All other errors are permanent and returned immediately.
type Retrier struct {
	baseBackOff  backoff.BackOff       // The core backoff strategy (e.g., *ExponentialBackOff).
	retryOptions []backoff.RetryOption // Options for the backoff.Retry call (e.g., MaxElapsedTime, Notify).
}

// NewRetrier creates a Retrier.
//
// baseBo is the base backoff policy; if nil, a default *ExponentialBackOff
// with standard intervals (Initial: 500ms, Max: 15s) is used. opts configure
// the retry loop (max elapsed time, max tries, notification); when none are
// given a default max elapsed time of one minute applies. It is recommended
// NOT to include backoff.WithBackOff() in opts, as baseBo is always applied
// as the primary backoff strategy.
func NewRetrier(baseBo backoff.BackOff, opts ...backoff.RetryOption) *Retrier {
	actualBaseBo := baseBo
	if actualBaseBo == nil {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = defaultRetryInitialInterval
		exp.MaxInterval = defaultRetryMaxInterval
		actualBaseBo = exp
	}

	finalOpts := opts
	if len(opts) == 0 {
		finalOpts = []backoff.RetryOption{
			backoff.WithMaxElapsedTime(defaultRetryMaxElapsedTime),
		}
	}

	return &Retrier{
		baseBackOff:  actualBaseBo,
		retryOptions: finalOpts,
	}
}

// Retry runs op under r's policy until it succeeds, fails permanently, or the
// policy gives up. The provided ctx is respected by the retry loop: if ctx is
// cancelled, retries stop.
//
// Typical use wraps a client call:
//
//	count, err := gemx.Retry(ctx, retrier, func(ctx context.Context) (gemx.TokenCount, error) {
//	    return client.CountText(ctx, "", prompt)
//	})
func Retry[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	operation := func() (T, error) {
		var zero T
		// Check whether the overarching context has been cancelled or has met
		// its deadline before attempting the call.
		if err := ctx.Err(); err != nil {
			return zero, backoff.Permanent(err)
		}

		res, err := op(ctx)
		if err != nil {
			if retriable(err) {
				return res, err
			}
			return res, backoff.Permanent(err)
		}
		return res, nil
	}

	// Reset the state of the base backoff policy between Retry invocations.
	r.baseBackOff.Reset()

	callOpts := make([]backoff.RetryOption, 0, 1+len(r.retryOptions))
	callOpts = append(callOpts, backoff.WithBackOff(r.baseBackOff))
	callOpts = append(callOpts, r.retryOptions...)

	res, err := backoff.Retry(ctx, operation, callOpts...)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return res, permanent.Err
		}
		return res, err
	}
	return res, nil
}

func retriable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var rateLimitErr RateLimitErr
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var apiErr ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			(apiErr.StatusCode >= 500 && apiErr.StatusCode <= 599)
	}
	return false
}
