package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func fastRetry(attempts int) RetryOptions {
	return RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name          string
		failures      int
		permanent     bool
		attempts      int
		wantCalls     int
		wantErr       error
		wantMaxRetries bool
	}{
		{
			name:      "succeeds first time",
			failures:  0,
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "succeeds after transient failures",
			failures:  2,
			attempts:  3,
			wantCalls: 3,
		},
		{
			name:          "exhausts attempts",
			failures:      5,
			attempts:      3,
			wantCalls:     3,
			wantErr:       errFlaky,
			wantMaxRetries: true,
		},
		{
			name:      "permanent error stops immediately",
			failures:  5,
			permanent: true,
			attempts:  3,
			wantCalls: 1,
			wantErr:   errFlaky,
		},
		{
			name:      "single attempt returns raw error",
			failures:  5,
			attempts:  1,
			wantCalls: 1,
			wantErr:   errFlaky,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					if tt.permanent {
						return Permanent(errFlaky)
					}
					return errFlaky
				}
				return nil
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMaxRetries, errors.Is(err, ErrMaxRetries))

			var retryable *RetryableError
			assert.False(t, errors.As(err, &retryable), "permanent wrapper should not leak")
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errFlaky
	}, fastRetry(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", ErrRateLimit, true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"marked retryable", &RetryableError{Err: errFlaky, Retryable: true}, true},
		{"permanent", Permanent(errFlaky), false},
		{"plain", errFlaky, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
