package bybit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, time.Second, config.InitialDelay)
	assert.Equal(t, time.Minute, config.MaxDelay)
	assert.Equal(t, 2.0, config.BackoffFactor)
	assert.True(t, config.JitterEnabled)
	assert.Contains(t, config.RetryableErrors, ErrCodeRateLimitExceeded)
	assert.Contains(t, config.RetryableErrors, 503)
}

func TestClient_RetryWithConfig_SucceedsAfterTransientFailures(t *testing.T) {
	client := NewClient(Config{})

	calls := 0
	err := client.RetryWithConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return NewBybitError(ErrCodeRateLimitExceeded, "rate limit")
		}
		return nil
	}, fastRetryConfig())

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestClient_RetryWithConfig_NonRetryableStopsImmediately(t *testing.T) {
	client := NewClient(Config{})

	calls := 0
	err := client.RetryWithConfig(context.Background(), func() error {
		calls++
		return NewBybitError(ErrCodeInvalidAPIKey, "bad key")
	}, fastRetryConfig())

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var bybitErr *BybitError
	require.ErrorAs(t, err, &bybitErr)
	assert.Equal(t, ErrCodeInvalidAPIKey, bybitErr.Code)
}

func TestClient_RetryWithConfig_ExhaustsRetries(t *testing.T) {
	client := NewClient(Config{})

	calls := 0
	err := client.RetryWithConfig(context.Background(), func() error {
		calls++
		return NewBybitError(503, "unavailable")
	}, fastRetryConfig())

	require.Error(t, err)
	// Initial attempt plus MaxRetries retries.
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "retry exhausted")
}

func TestClient_RetryWithConfig_HonorsContext(t *testing.T) {
	client := NewClient(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := client.RetryWithConfig(ctx, func() error {
		calls++
		return nil
	}, fastRetryConfig())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestClient_CalculateDelay(t *testing.T) {
	client := NewClient(Config{})

	config := DefaultRetryConfig()
	config.JitterEnabled = false

	assert.Equal(t, time.Second, client.calculateDelay(0, config))
	assert.Equal(t, 2*time.Second, client.calculateDelay(1, config))
	assert.Equal(t, 4*time.Second, client.calculateDelay(2, config))

	// Exponential growth caps at MaxDelay.
	assert.Equal(t, time.Minute, client.calculateDelay(10, config))

	config.JitterEnabled = true
	delay := client.calculateDelay(1, config)
	assert.GreaterOrEqual(t, delay, 1800*time.Millisecond)
	assert.LessOrEqual(t, delay, 2200*time.Millisecond)
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)

	calls := 0
	fail := func() error {
		calls++
		return NewBybitError(503, "unavailable")
	}

	require.Error(t, cb.Call(fail))
	require.Error(t, cb.Call(fail))
	assert.Equal(t, 2, calls)

	// Open circuit rejects without invoking the function.
	err := cb.Call(fail)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "Circuit breaker is open")
}

func TestCircuitBreaker_RecoversAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 20*time.Millisecond)

	require.Error(t, cb.Call(func() error {
		return NewBybitError(503, "unavailable")
	}))

	time.Sleep(30 * time.Millisecond)

	calls := 0
	assert.NoError(t, cb.Call(func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)

	// Success closed the circuit again.
	assert.NoError(t, cb.Call(func() error { return nil }))
}

// fastRetryConfig keeps retry tests quick by shrinking the backoff delays.
func fastRetryConfig() RetryConfig {
	config := DefaultRetryConfig()
	config.MaxRetries = 2
	config.InitialDelay = time.Millisecond
	config.MaxDelay = 5 * time.Millisecond
	config.JitterEnabled = false
	return config
}
