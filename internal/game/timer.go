package game

import "time"

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// scheduleRound starts a timer bound to the current round. When it fires
// the callback runs under the room lock, and only if the round it was
// scheduled for is still the current one.
func (r *Room) scheduleRound(d time.Duration, fn func()) Timer {
	gen := r.generation
	return r.scheduler.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.destroyed || r.generation != gen {
			r.log.Debug().Uint64("generation", gen).Msg("[scheduleRound] stale timer ignored")
			return
		}
		fn()
	})
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
