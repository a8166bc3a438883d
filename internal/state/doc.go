// Package state provides thread-safe sharing of session history between the
// background refresher and the UI.
//
// # Overview
//
// The refresher goroutine reads today's summary and the most recent sessions
// from the history database and publishes them with Publish, or records a
// failed read with Fail. The UI reads a
// Snapshot on its own one-second cadence. The timer's live countdown does not
// flow through this package; the UI reads that straight from the timer.
//
//	Producer (poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ Summarize()    │            │                 │
//	│ Recent()       │            │                 │
//	│      ↓         │            │                 │
//	│ store.Publish()│───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │  render summary │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	// Success case: replace summary and recent sessions for day
//	store.Publish(day, summary, recent)
//
//	// Error case: keep old data, record error
//	store.Fail(err)
//
// The UI keeps showing the last good totals while a refresh fails, and
// IsDegraded flags the header after two consecutive failures.
//
// # Day Boundaries
//
// Each published summary carries the local midnight it was computed from.
// Snapshot.Stale reports totals from an earlier day, which happens between
// midnight and the next successful refresh. Publish drops a summary for an
// older day than the one already held.
//
// # Defensive Copying
//
// Both Publish and Snapshot copy the session slice and Snapshot wraps the stored
// error, so neither side can mutate what the other holds.
//
// The zero Store is ready to use.
package state
