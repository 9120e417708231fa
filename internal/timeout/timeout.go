// Package timeout implements the polled countdown timers that revert the
// display to splash when the host goes quiet and power it off when the user does.
package timeout

import (
	"log"
	"time"
)

const (
	DefaultStaleness  = 5 * time.Second
	DefaultInactivity = 5 * time.Minute
)

type State int

const (
	StateArmed State = iota
	StateElapsed
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "ARMED"
	case StateElapsed:
		return "ELAPSED"
	default:
		return "UNKNOWN"
	}
}

// Timer is an armed/elapsed state machine driven by Poll.
type Timer struct {
	name      string
	threshold time.Duration
	lastReset time.Time
	state     State
}

func NewTimer(name string, threshold time.Duration, now time.Time) *Timer {
	return &Timer{name: name, threshold: threshold, lastReset: now, state: StateArmed}
}

// Arm restarts the countdown from now.
func (t *Timer) Arm(now time.Time) {
	t.lastReset = now
	t.state = StateArmed
}

// Poll returns true exactly once per arming, on the poll where more than the
// threshold has passed since the last Arm. A clock reading earlier than the
// last reset counts as no time passed.
func (t *Timer) Poll(now time.Time) bool {
	if t.state != StateArmed {
		return false
	}
	elapsed := now.Sub(t.lastReset)
	if elapsed < 0 || elapsed <= t.threshold {
		return false
	}
	t.state = StateElapsed
	log.Printf("%s timer: %s -> %s after %s", t.name, StateArmed, StateElapsed, elapsed.Round(time.Millisecond))
	return true
}

func (t *Timer) State() State { return t.state }

func (t *Timer) Threshold() time.Duration { return t.threshold }

// Remaining returns the time left before the timer elapses, or zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.state != StateArmed {
		return 0
	}
	left := t.threshold - now.Sub(t.lastReset)
	if left < 0 {
		return 0
	}
	return left
}
