package timer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/five82/focus/internal/clock"
)

// DefaultPeriod is the tick period used when Options.Period is unset.
const DefaultPeriod = time.Second

const maxSeconds = math.MaxInt32

// Options contains runtime options for a Timer.
type Options struct {
	Clock  clock.Clock
	Period time.Duration
}

// Timer is a countdown state machine with an owned tick source.
type Timer struct {
	mu     sync.Mutex
	clock  clock.Clock
	period time.Duration
	state  State
	closed bool
	events []chan Event

	// interval is the startable mode of the current or last interval. It
	// survives completion so Reset and Restart can re-arm it.
	interval Mode

	// Tick source. At most one handle is armed; generation invalidates
	// callbacks that were already in flight when the handle was dropped.
	handle     clock.Timer
	generation uint64
	deadline   time.Time
}

// New creates an idle Timer.
func New(options Options) *Timer {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Period <= 0 {
		options.Period = DefaultPeriod
	}
	return &Timer{
		clock:  options.Clock,
		period: options.Period,
		state:  IdleState(),
	}
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel drops the event. Channels are closed by Close.
func (t *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		close(ch)
		return ch
	}
	t.events = append(t.events, ch)
	return ch
}

// Snapshot returns a copy of the current state.
func (t *Timer) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// FormatTime formats the current remaining time.
func (t *Timer) FormatTime() string {
	return t.Snapshot().FormatTime()
}

// Progress returns the completed share of the current interval in percent.
func (t *Timer) Progress() float64 {
	return t.Snapshot().Progress()
}

// ElapsedMinutes returns whole minutes elapsed in the current interval.
func (t *Timer) ElapsedMinutes() int {
	return t.Snapshot().ElapsedMinutes()
}

// Start begins a new interval of the given length, replacing any interval in
// progress. Fractional minutes are rounded to whole seconds.
func (t *Timer) Start(minutes float64, mode Mode) error {
	if !mode.Startable() {
		return fmt.Errorf("%w: mode %q", ErrInvalidArgument, mode)
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return fmt.Errorf("%w: duration %v minutes", ErrInvalidArgument, minutes)
	}
	seconds := math.Round(minutes * 60)
	if seconds < 1 || seconds > maxSeconds {
		return fmt.Errorf("%w: duration %v minutes", ErrInvalidArgument, minutes)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(int(seconds), mode)
}

// Restart starts a fresh interval with the duration and mode of the current
// or last one. It fails with ErrInvalidArgument when nothing was started
// since the last Stop.
func (t *Timer) Restart() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.state.Initial <= 0 || !t.interval.Startable() {
		return fmt.Errorf("%w: no interval to restart", ErrInvalidArgument)
	}
	return t.startLocked(t.state.Initial, t.interval)
}

func (t *Timer) startLocked(seconds int, mode Mode) error {
	if t.closed {
		return ErrClosed
	}

	prev := t.state
	t.state = State{
		Remaining: seconds,
		Initial:   seconds,
		Running:   true,
		Paused:    false,
		Mode:      mode,
	}
	t.interval = mode
	t.disarmLocked()
	t.rescheduleLocked()
	t.emitLocked(EventStarted, prev)
	return nil
}

// TogglePause flips the paused flag. It only affects ticking while running.
func (t *Timer) TogglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	prev := t.state
	t.state.Paused = !t.state.Paused
	t.rescheduleLocked()
	if t.state.Paused {
		t.emitLocked(EventPaused, prev)
	} else {
		t.emitLocked(EventResumed, prev)
	}
}

// Stop abandons the interval and returns to the idle state.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	prev := t.state
	t.state = IdleState()
	t.interval = ""
	t.disarmLocked()
	t.emitLocked(EventStopped, prev)
}

// Reset restores the full duration without ticking. The mode is kept, so a
// reset interval stays armed until the next Start or Restart. A completed
// interval gets its focus or break mode back, since completed implies zero
// remaining time.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	prev := t.state
	t.state.Remaining = t.state.Initial
	t.state.Paused = false
	t.state.Running = false
	if t.state.Mode == ModeCompleted && t.interval.Startable() {
		t.state.Mode = t.interval
	}
	t.rescheduleLocked()
	t.emitLocked(EventReset, prev)
}

// Close cancels any pending tick and closes subscriber channels. The timer
// keeps its last state for Snapshot; further mutations are ignored.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.disarmLocked()
	events := t.events
	t.events = nil
	t.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// tickLocked applies one countdown step.
func (t *Timer) tickLocked() error {
	if !t.state.Eligible() {
		return fmt.Errorf("%w: tick in %s state (running=%t paused=%t remaining=%d)",
			ErrIllegalTransition, t.state.Mode, t.state.Running, t.state.Paused, t.state.Remaining)
	}
	if t.state.Remaining > 1 {
		t.state.Remaining--
		return nil
	}
	t.state.Remaining = 0
	t.state.Running = false
	t.state.Mode = ModeCompleted
	return nil
}

func (t *Timer) emitLocked(eventType EventType, prev State) {
	event := Event{
		Type:     eventType,
		State:    t.state,
		Previous: prev,
		At:       t.clock.Now(),
	}
	for _, ch := range t.events {
		select {
		case ch <- event:
		default:
		}
	}
}
