package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

type explicitErr struct{ retryable bool }

func (e *explicitErr) Error() string     { return "explicit" }
func (e *explicitErr) IsRetryable() bool { return e.retryable }

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	permanent := errors.New("invalid request body")
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return permanent
	})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return errors.New("503 service unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls, "initial attempt plus MaxRetries")
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, &Config{MaxRetries: 5, InitialDelay: time.Hour, Multiplier: 2}, func() error {
		return errors.New("timeout")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("429 too many requests")))
	assert.False(t, IsRetryable(errors.New("401 unauthorized")))
	assert.True(t, IsRetryable(&explicitErr{retryable: true}))
	assert.False(t, IsRetryable(&explicitErr{retryable: false}),
		"explicit retryability wins over pattern matching")
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("timeout")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
