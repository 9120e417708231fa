package timeout

import "time"

// Expiry reports which timers elapsed on a poll.
type Expiry struct {
	Stale    bool
	Inactive bool
}

// Supervisor owns the transfer-staleness and user-inactivity timers.
type Supervisor struct {
	staleness  *Timer
	inactivity *Timer
}

// NewSupervisor arms the inactivity timer at now. The staleness timer starts
// armed but is only polled while a transfer is active.
func NewSupervisor(staleAfter, idleAfter time.Duration, now time.Time) *Supervisor {
	return &Supervisor{
		staleness:  NewTimer("staleness", staleAfter, now),
		inactivity: NewTimer("inactivity", idleAfter, now),
	}
}

// TransferCompleted re-arms the staleness timer.
func (s *Supervisor) TransferCompleted(now time.Time) {
	s.staleness.Arm(now)
}

// UserActivity re-arms the inactivity timer. It reports whether the timer had
// elapsed, which means the display was powered off.
func (s *Supervisor) UserActivity(now time.Time) bool {
	wasElapsed := s.inactivity.State() == StateElapsed
	s.inactivity.Arm(now)
	return wasElapsed
}

// Poll advances both timers. transferActive gates the staleness timer.
func (s *Supervisor) Poll(now time.Time, transferActive bool) Expiry {
	var e Expiry
	if transferActive {
		e.Stale = s.staleness.Poll(now)
	}
	e.Inactive = s.inactivity.Poll(now)
	return e
}

func (s *Supervisor) Staleness() *Timer { return s.staleness }

func (s *Supervisor) Inactivity() *Timer { return s.inactivity }
