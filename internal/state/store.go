package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/focus/internal/history"
)

// Snapshot represents the latest history data available to the UI.
type Snapshot struct {
	Today      history.Summary
	HasSummary bool
	// Day is the local midnight Today was summarized from.
	Day                 time.Time
	Recent              []history.Session
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsDegraded returns true when the history store has failed repeatedly.
func (s Snapshot) IsDegraded() bool {
	return s.ConsecutiveFailures >= 2
}

// Stale reports whether the held totals belong to a day before now. Totals
// go stale when the clock passes midnight and the next refresh has not landed
// yet, or when every refresh since then has failed.
func (s Snapshot) Stale(now time.Time) bool {
	if !s.HasSummary {
		return false
	}
	return s.Day.Before(history.StartOfDay(now))
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// Publish records a successful refresh. day is the start of the window the
// summary covers. A publish for an older day than the one held is ignored so a
// slow refresh started before midnight cannot roll the totals back.
func (s *Store) Publish(day time.Time, summary history.Summary, recent []history.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.HasSummary && day.Before(s.snapshot.Day) {
		return
	}
	s.snapshot.Today = summary
	s.snapshot.HasSummary = true
	s.snapshot.Day = day
	s.snapshot.Recent = cloneSessions(recent)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = s.clock()
	s.snapshot.ConsecutiveFailures = 0
}

// Fail records a refresh error. The previous totals and sessions are kept.
func (s *Store) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = s.clock()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Recent = cloneSessions(s.snapshot.Recent)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func cloneSessions(items []history.Session) []history.Session {
	if len(items) == 0 {
		return nil
	}
	dup := make([]history.Session, len(items))
	copy(dup, items)
	return dup
}
