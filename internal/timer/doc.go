// Package timer implements the focus/break countdown.
//
// # Overview
//
// A Timer owns one State value and at most one pending tick callback. Every
// mutation (Start, Restart, TogglePause, Stop, Reset) runs under the timer's
// mutex and re-derives eligibility before returning:
//
//	eligible = Running && !Paused && Remaining > 0
//
// When a mutation makes the timer eligible a tick source is armed one full
// period ahead; when it makes the timer ineligible the source is stopped
// immediately. Only the tick source decrements Remaining.
//
// # State Machine
//
//	        Start            tick (Remaining == 1)
//	idle ──────────> focus/break ─────────────────> completed
//	  ^                 │   ^                          │
//	  │       Stop      │   │ Start/Restart            │
//	  └─────────────────┘   └──────────────────────────┘
//
// Reset keeps the mode and the initial duration but clears Running, so the
// interval is armed without ticking until Start or Restart.
//
// # Cancellation
//
// A callback that was already in flight when its source was stopped may still
// run. Each arming bumps a generation counter and callbacks carry the
// generation they were armed with; a mismatch means the callback lost the race
// and it returns without touching the state. Missed deadlines (a suspended
// process) restart the one-second grid instead of replaying owed ticks.
//
// # Derived Values
//
// FormatTime, Progress and ElapsedMinutes are pure functions of State and are
// recomputed on every call.
//
// # Observers
//
// Subscribe returns a buffered channel receiving an Event per state change.
// Sends never block; a slow observer loses events rather than stalling ticks.
// Close cancels the tick source and closes every subscriber channel, which is
// the teardown hook for the host view.
package timer
