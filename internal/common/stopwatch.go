package common

import (
	"time"
)

// This stopwatch keeps track of time. You can set a timeout for it,
// make it start counting time, and ask it if the timeout has been reached
type Stopwatch struct {
	Timeout   time.Duration
	startTime time.Time
	Running   bool
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{Timeout: timeout}
}

func (s *Stopwatch) Start() {
	s.StartAt(time.Now())
}

func (s *Stopwatch) StartAt(t time.Time) {
	s.Running = true
	s.startTime = t
}

func (s *Stopwatch) Stop() {
	s.Running = false
}

// Report if the timeout has been reached at the provided time,
// and if not, how long is left until it is.
// A stopwatch that is not running counts as stopped
func (s *Stopwatch) Stopped(currentTime time.Time) (bool, time.Duration) {
	if !s.Running {
		return true, 0
	}
	remaining := s.startTime.Add(s.Timeout).Sub(currentTime)
	if remaining <= 0 {
		s.Running = false
		return true, 0
	}
	return false, remaining
}
