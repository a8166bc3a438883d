package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
	recentLimit         = 5
)

// HistorySource is the read side of the session log.
type HistorySource interface {
	Summarize(ctx context.Context, since time.Time) (history.Summary, error)
	Recent(ctx context.Context, limit int) ([]history.Session, error)
}

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while the source fails. A send on wake forces an
// immediate refresh. The returned channel is closed once the goroutine exits.
func StartPoller(ctx context.Context, store *state.Store, source HistorySource, interval time.Duration, wake <-chan struct{}) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)

		failures := 0
		for {
			if err := refresh(ctx, store, source); err != nil {
				failures++
			} else {
				failures = 0
			}

			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-wake:
				timer.Stop()
			case <-timer.C:
			}
		}
	}()
	return done
}

func refresh(ctx context.Context, store *state.Store, source HistorySource) error {
	day := history.StartOfDay(time.Now())
	summary, err := source.Summarize(ctx, day)
	if err != nil {
		store.Fail(err)
		log.Printf("summary refresh failed: %v", err)
		return err
	}
	recent, err := source.Recent(ctx, recentLimit)
	if err != nil {
		store.Fail(err)
		log.Printf("recent sessions refresh failed: %v", err)
		return err
	}
	store.Publish(day, summary, recent)
	return nil
}

// calculateBackoff doubles the interval per consecutive failure up to maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
