package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return fmt.Errorf("still down")
	})
	require.Error(t, err)
	// Default policy: one initial attempt plus two retries.
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := withRetry(ctx, 10, 50*time.Millisecond, func() error {
		calls++
		return fmt.Errorf("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic("mock-user-1", "mock@example.com")

	sess, err := p.GetSession(context.Background(), "fixture-token")
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", sess.UserID)

	_, err = p.GetSession(context.Background(), "")
	assert.Error(t, err)
}
