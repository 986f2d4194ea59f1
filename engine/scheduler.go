package engine

import (
	"time"

	"github.com/lixenwraith/holo-carousel/loader"
)

// Rotator accepts rotation requests; false means the request was rejected
type Rotator interface {
	Request(dir loader.Direction) bool
}

// Scheduler triggers a forward rotation every interval unless paused, and handles manual skips
type Scheduler struct {
	rot      Rotator
	interval time.Duration
	elapsed  time.Duration
	paused   bool
}

// NewScheduler creates a running scheduler
func NewScheduler(interval time.Duration, rot Rotator) *Scheduler {
	return &Scheduler{rot: rot, interval: interval}
}

// Tick accumulates dt and requests a forward rotation once the interval has passed
func (s *Scheduler) Tick(dt time.Duration) {
	if s.paused {
		return
	}
	s.elapsed += dt
	if s.elapsed >= s.interval {
		s.elapsed = 0
		s.rot.Request(loader.Forward)
	}
}

// SkipForward restarts the interval and rotates forward now
func (s *Scheduler) SkipForward() bool {
	s.elapsed = 0
	return s.rot.Request(loader.Forward)
}

// SkipBackward restarts the interval and rotates back to the previous candidate now
func (s *Scheduler) SkipBackward() bool {
	s.elapsed = 0
	return s.rot.Request(loader.Backward)
}

// TogglePause flips the pause flag and returns the new state
func (s *Scheduler) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// Paused reports whether automatic rotation is suspended
func (s *Scheduler) Paused() bool { return s.paused }

// Elapsed returns time accumulated toward the next rotation
func (s *Scheduler) Elapsed() time.Duration { return s.elapsed }

// Interval returns the rotation interval
func (s *Scheduler) Interval() time.Duration { return s.interval }
