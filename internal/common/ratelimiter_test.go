package common

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictionAnalyseEmptyHistory(t *testing.T) {
	rest := Every(time.Second)
	analysis := rest.Analyse(nil, time.Now())
	assert.True(t, analysis.allowed)
	assert.Zero(t, analysis.wait)
}

func TestRestrictionAnalyseInsideWindow(t *testing.T) {
	now := time.Now()
	rest := Restriction{Requests: 2, Duration: 10 * time.Second}

	history := []time.Time{now.Add(-30 * time.Second), now.Add(-4 * time.Second)}
	assert.True(t, rest.Analyse(history, now).allowed)

	history = append(history, now.Add(-1*time.Second))
	analysis := rest.Analyse(history, now)
	assert.False(t, analysis.allowed)
	assert.Equal(t, 6*time.Second, analysis.wait)
}

func TestRateLimiterSerializesRequests(t *testing.T) {
	interval := 30 * time.Millisecond
	rl := NewRateLimiter(time.Second, Every(interval))

	var inFlight, maxInFlight int32
	var mu sync.Mutex
	var stamps []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := rl.Do(context.Background(), func() error {
				current := atomic.AddInt32(&inFlight, 1)
				for {
					previous := atomic.LoadInt32(&maxInFlight)
					if current <= previous || atomic.CompareAndSwapInt32(&maxInFlight, previous, current) {
						break
					}
				}
				mu.Lock()
				stamps = append(stamps, time.Now())
				mu.Unlock()
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight)
	require.Len(t, stamps, 4)
	for i := 1; i < len(stamps); i++ {
		// Allow a little scheduling slack below the interval
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), interval-5*time.Millisecond)
	}
}

func TestRateLimiterReturnsRequestError(t *testing.T) {
	rl := NewRateLimiter(time.Second, Every(time.Millisecond))
	boom := errors.New("boom")
	err := rl.Do(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRateLimiterCancelledWhileWaiting(t *testing.T) {
	rl := NewRateLimiter(time.Second, Every(time.Hour))
	require.NoError(t, rl.Do(context.Background(), func() error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	called := false
	err := rl.Do(ctx, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestRateLimiterCooldownAfterUpstreamLimit(t *testing.T) {
	cooldown := 40 * time.Millisecond
	rl := NewRateLimiter(cooldown, Every(time.Millisecond))

	err := rl.Do(context.Background(), func() error { return Wrap(UpstreamError, "url", ErrRateLimited) })
	require.ErrorIs(t, err, ErrRateLimited)
	limited := time.Now()

	require.NoError(t, rl.Do(context.Background(), func() error { return nil }))
	assert.GreaterOrEqual(t, time.Since(limited), cooldown-5*time.Millisecond)
}
