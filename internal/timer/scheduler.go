package timer

import (
	"log"
	"time"
)

// rescheduleLocked arms or disarms the tick source to match eligibility.
// An already armed source is left alone so its grid is not shifted.
func (t *Timer) rescheduleLocked() {
	if t.closed || !t.state.Eligible() {
		t.disarmLocked()
		return
	}
	if t.handle != nil {
		return
	}
	t.armLocked(t.clock.Now().Add(t.period))
}

func (t *Timer) armLocked(deadline time.Time) {
	now := t.clock.Now()
	if !deadline.After(now) {
		// Missed deadlines are dropped, not replayed.
		deadline = now.Add(t.period)
	}
	t.generation++
	gen := t.generation
	t.deadline = deadline
	t.handle = t.clock.AfterFunc(deadline.Sub(now), func() {
		t.fire(gen)
	})
}

func (t *Timer) disarmLocked() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	t.generation++
}

// fire runs on the clock's goroutine. A callback whose generation is stale
// lost a race with cancellation and must not touch the state.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation || t.closed {
		return
	}
	t.handle = nil
	if !t.state.Eligible() {
		t.generation++
		return
	}

	prev := t.state
	if err := t.tickLocked(); err != nil {
		log.Printf("timer: %v", err)
		return
	}
	if t.state.Eligible() {
		t.armLocked(t.deadline.Add(t.period))
	} else {
		t.disarmLocked()
	}

	if t.state.Mode == ModeCompleted {
		t.emitLocked(EventCompleted, prev)
		return
	}
	t.emitLocked(EventTick, prev)
}
