package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 3, ResetAfter: time.Hour})

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
		allowed, err := cb.Allow()
		require.NoError(t, err)
		assert.True(t, allowed, "below threshold, requests flow")
	}

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	allowed, err := cb.Allow()
	assert.False(t, allowed)
	assert.Error(t, err)
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 2, ResetAfter: time.Hour})

	cb.RecordFailure()
	cb.RecordSuccess()
	assert.Equal(t, 0, cb.ConsecutiveFailures())

	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State(), "one failure after reset is below threshold")
}

func TestCircuitBreaker_HalfOpenAfterReset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: 10 * time.Millisecond})

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	allowed, err := cb.Allow()
	require.NoError(t, err)
	assert.True(t, allowed, "probe allowed after reset interval")
	assert.Equal(t, CircuitHalfOpen, cb.State())

	// A second request while probing is rejected.
	allowed, err = cb.Allow()
	assert.False(t, allowed)
	assert.Error(t, err)

	// Probe failure reopens; probe success closes.
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitBreaker_ProbeSuccessCloses(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Millisecond})
	cb.RecordFailure()
	time.Sleep(5 * time.Millisecond)

	allowed, _ := cb.Allow()
	require.True(t, allowed)
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}
