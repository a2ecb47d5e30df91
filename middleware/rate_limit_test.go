package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiterSlidingWindow(t *testing.T) {
	limiter := newMemoryRateLimiter()

	for i := 0; i < 3; i++ {
		require.True(t, limiter.allow("client", 3, time.Minute), "request %d should pass", i+1)
	}
	require.False(t, limiter.allow("client", 3, time.Minute), "fourth request inside the window must be rejected")

	// Independent keys do not share a window.
	require.True(t, limiter.allow("other", 3, time.Minute))
}

func TestMemoryRateLimiterWindowExpiry(t *testing.T) {
	limiter := newMemoryRateLimiter()

	require.True(t, limiter.allow("client", 1, 10*time.Millisecond))
	require.False(t, limiter.allow("client", 1, 10*time.Millisecond))

	time.Sleep(15 * time.Millisecond)
	require.True(t, limiter.allow("client", 1, 10*time.Millisecond), "window must slide past old requests")
}
