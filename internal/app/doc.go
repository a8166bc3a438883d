// Package app provides the orchestration layer for focus.
//
// # Overview
//
// This package wires together configuration, the timer, the session history,
// and the UI. It is the composition root where every dependency is created and
// torn down.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config.toml (+ flag overrides)
//	       ├─────> prefs.Load()        Theme and auto-break
//	       ├─────> history.Open()      SQLite session log
//	       ├─────> timer.New()         Countdown state machine
//	       ├─────> Recorder.Run()      timer events → history rows
//	       ├─────> StartPoller()       history → state.Store
//	       └─────> ui.Run()            Start TUI (blocks)
//
// The recorder writes a session whenever an interval completes, is stopped, is
// reset, or is replaced by a new Start, and nudges the poller so the UI footer
// picks up the new totals right away.
//
// # Polling Behavior
//
// The poller refreshes today's summary and the most recent sessions every
// 5 seconds. Failures are recorded in the store and the interval doubles per
// consecutive failure, capped at 30 seconds.
//
// # Shutdown
//
// When the UI returns, Run stops the running interval (so it is logged),
// closes the timer, waits for the recorder to drain, cancels the poller and
// finally closes the history database.
package app
