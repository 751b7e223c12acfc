package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Longest sleep before the restrictions are checked again
const RECHECK_INTERVAL = 500 * time.Millisecond

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

// The rate limiter is a gate in front of an upstream service.
// Only one request goes through the gate at a time: the holder waits
// until every restriction allows it, stamps the request in the history
// and performs it before releasing the gate
type RateLimiter struct {
	gate         chan struct{}
	restrictions []Restriction // Restrictions to consider
	history      []time.Time   // History of requests
	duration     time.Duration // Min duration to wait for all restrictions to be lifted
	cooldown     Stopwatch     // Started when upstream answers with a rate limit
	now          func() time.Time
}

func NewRateLimiter(cooldown time.Duration, restrictions ...Restriction) *RateLimiter {
	rl := RateLimiter{gate: make(chan struct{}, 1), now: time.Now}
	rl.restrictions = make([]Restriction, len(restrictions))
	copy(rl.restrictions, restrictions)
	for _, restriction := range restrictions {
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	rl.cooldown = NewStopwatch(cooldown)
	return &rl
}

// Perform the request once the restrictions allow it.
// Callers block while another request holds the gate. The context
// cancels both the wait for the gate and the wait for the restrictions
func (rl *RateLimiter) Do(ctx context.Context, request func() error) error {

	// Give this request a unique identifier
	thisuuid := uuid.New()

	select {
	case rl.gate <- struct{}{}:
	case <-ctx.Done():
		log.Debug().Msg(fmt.Sprintf("Request %s cancelled while waiting for the gate", thisuuid))
		return ctx.Err()
	}
	defer func() { <-rl.gate }()

	for {
		currentTime := rl.now()
		rl.trim(currentTime)
		analysis := rl.analyse(currentTime)
		if analysis.allowed {
			break
		}

		// Sleep and check again
		wait := min(analysis.wait, RECHECK_INTERVAL)
		log.Debug().Msg(fmt.Sprintf("Request %s delayed %.2f seconds", thisuuid, wait.Seconds()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	// Include this request in the history as it is allowed
	log.Debug().Msg(fmt.Sprintf("Allowing request %s", thisuuid))
	rl.history = append(rl.history, rl.now())

	err := request()
	if errors.Is(err, ErrRateLimited) {
		log.Warn().Msg(fmt.Sprintf("Request %s hit the upstream rate limit, cooling down for %s", thisuuid, rl.cooldown.Timeout))
		rl.cooldown.StartAt(rl.now())
	}
	return err
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim(currentTime time.Time) {
	// Find the index from which we need to keep the history.
	// Start searching at the end of the slice.
	// I assume times are stored in chronological order
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) > rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse(currentTime time.Time) Analysis {

	var wait time.Duration = 0
	allowed := true

	// Upstream asked us to stop
	if stopped, remaining := rl.cooldown.Stopped(currentTime); !stopped {
		allowed = false
		wait = remaining
	}

	// Merge the analyses of every restriction
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history, currentTime)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}
