package timer

import (
	"errors"
	"time"
)

var (
	// ErrInvalidArgument reports a rejected Start duration or mode.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIllegalTransition reports a tick applied while the timer was not eligible.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("timer closed")
)

// EventType defines the kind of timer update.
type EventType string

const (
	EventStarted   EventType = "started"
	EventPaused    EventType = "paused"
	EventResumed   EventType = "resumed"
	EventTick      EventType = "tick"
	EventCompleted EventType = "completed"
	EventStopped   EventType = "stopped"
	EventReset     EventType = "reset"
)

// Event is delivered to subscribers after every state change. Previous holds
// the state immediately before the change.
type Event struct {
	Type     EventType
	State    State
	Previous State
	At       time.Time
}
