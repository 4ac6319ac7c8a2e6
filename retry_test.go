package gemx_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ferrostal/gemx"
)

// flakyOp fails with err for failures attempts, then succeeds.
type flakyOp struct {
	err      error
	failures int
	calls    int
}

func (f *flakyOp) run(ctx context.Context) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "ok", nil
}

func TestRetrySuccessFirstAttempt(t *testing.T) {
	op := &flakyOp{}
	r := gemx.NewRetrier(&backoff.StopBackOff{})

	res, err := gemx.Retry(context.Background(), r, op.run)
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if res != "ok" {
		t.Errorf("Retry() = %q, want ok", res)
	}
	if op.calls != 1 {
		t.Errorf("Expected 1 call, got %d", op.calls)
	}
}

func TestRetryRetriableErrors(t *testing.T) {
	testCases := []struct {
		name          string
		retriableErr  error
		expectedCalls int
	}{
		{
			name:          "RateLimitErr",
			retriableErr:  gemx.RateLimitErr("test rate limit"),
			expectedCalls: 2,
		},
		{
			name:          "ApiErr 429",
			retriableErr:  gemx.ApiErr{StatusCode: http.StatusTooManyRequests, Message: "too many requests"},
			expectedCalls: 2,
		},
		{
			name:          "ApiErr 500",
			retriableErr:  gemx.ApiErr{StatusCode: http.StatusInternalServerError, Message: "internal"},
			expectedCalls: 2,
		},
		{
			name:          "ApiErr 503",
			retriableErr:  gemx.ApiErr{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"},
			expectedCalls: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op := &flakyOp{err: tc.retriableErr, failures: 1}
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = time.Millisecond
			r := gemx.NewRetrier(exp, backoff.WithMaxTries(5))

			res, err := gemx.Retry(context.Background(), r, op.run)
			if err != nil {
				t.Fatalf("Retry() error = %v", err)
			}
			if res != "ok" {
				t.Errorf("Retry() = %q, want ok", res)
			}
			if op.calls != tc.expectedCalls {
				t.Errorf("Expected %d calls, got %d", tc.expectedCalls, op.calls)
			}
		})
	}
}

func TestRetryPermanentErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"ApiErr 400", gemx.ApiErr{StatusCode: http.StatusBadRequest, Message: "bad request"}},
		{"AuthenticationErr", gemx.AuthenticationErr("bad key")},
		{"generic error", errors.New("parse failure")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op := &flakyOp{err: tc.err, failures: 100}
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = time.Millisecond
			r := gemx.NewRetrier(exp, backoff.WithMaxTries(5))

			_, err := gemx.Retry(context.Background(), r, op.run)
			if !errors.Is(err, tc.err) {
				t.Fatalf("Retry() error = %v, want %v", err, tc.err)
			}
			if op.calls != 1 {
				t.Errorf("Expected exactly 1 call for a permanent error, got %d", op.calls)
			}
		})
	}
}

func TestRetryGivesUpAfterMaxTries(t *testing.T) {
	retriable := gemx.RateLimitErr("always limited")
	op := &flakyOp{err: retriable, failures: 100}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Millisecond
	exp.MaxInterval = 2 * time.Millisecond
	r := gemx.NewRetrier(exp, backoff.WithMaxTries(3))

	_, err := gemx.Retry(context.Background(), r, op.run)
	if !errors.Is(err, retriable) {
		t.Fatalf("Retry() error = %v, want the retriable error", err)
	}
	if op.calls != 3 {
		t.Errorf("Expected 3 calls, got %d", op.calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := &flakyOp{err: gemx.RateLimitErr("limited"), failures: 100}
	r := gemx.NewRetrier(nil)

	_, err := gemx.Retry(ctx, r, op.run)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() error = %v, want context.Canceled", err)
	}
	if op.calls != 0 {
		t.Errorf("Expected no calls with a cancelled context, got %d", op.calls)
	}
}
