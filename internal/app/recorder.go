package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/timer"
)

const recordTimeout = 5 * time.Second

// SessionWriter is the write side of the session log.
type SessionWriter interface {
	Record(ctx context.Context, session history.Session) (history.Session, error)
}

// Recorder turns timer events into history sessions.
type Recorder struct {
	writer   SessionWriter
	onRecord func(history.Session)
	started  time.Time
}

// NewRecorder creates a Recorder. onRecord, if set, runs after each
// successful write.
func NewRecorder(writer SessionWriter, onRecord func(history.Session)) *Recorder {
	return &Recorder{writer: writer, onRecord: onRecord}
}

// Run consumes events until the channel is closed. Writes outlive ctx
// cancellation so the interval that was running at shutdown is still logged.
func (r *Recorder) Run(ctx context.Context, events <-chan timer.Event) {
	ctx = context.WithoutCancel(ctx)
	for event := range events {
		r.handle(ctx, event)
	}
}

func (r *Recorder) handle(ctx context.Context, event timer.Event) {
	switch event.Type {
	case timer.EventStarted:
		// Starting over an interval in progress abandons it.
		r.record(ctx, event.Previous.Mode, event.Previous, history.OutcomeStopped, event.At)
		r.started = event.At
	case timer.EventCompleted:
		r.record(ctx, event.Previous.Mode, event.State, history.OutcomeCompleted, event.At)
	case timer.EventStopped:
		r.record(ctx, event.Previous.Mode, event.Previous, history.OutcomeStopped, event.At)
	case timer.EventReset:
		r.record(ctx, event.Previous.Mode, event.Previous, history.OutcomeReset, event.At)
	}
}

// record writes the interval described by st. Intervals that never counted
// down, and completed ones seen again through Stop or Reset, are skipped.
func (r *Recorder) record(ctx context.Context, mode timer.Mode, st timer.State, outcome history.Outcome, endedAt time.Time) {
	if !mode.Startable() || st.ElapsedSeconds() == 0 {
		return
	}

	startedAt := r.started
	if startedAt.IsZero() {
		startedAt = endedAt.Add(-time.Duration(st.ElapsedSeconds()) * time.Second)
	}
	session := history.Session{
		Mode:           string(mode),
		Outcome:        outcome,
		PlannedSeconds: st.Initial,
		ElapsedSeconds: st.ElapsedSeconds(),
		StartedAt:      startedAt,
		EndedAt:        endedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	recorded, err := r.writer.Record(ctx, session)
	if err != nil {
		log.Printf("record %s session failed: %v", mode, err)
		return
	}
	log.Printf("recorded %s session (%s, %dm)", mode, outcome, recorded.ElapsedMinutes())
	if r.onRecord != nil {
		r.onRecord(recorded)
	}
}
