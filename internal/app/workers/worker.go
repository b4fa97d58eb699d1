package workers

import (
	"context"
	"francoggm/versapay-checkout/internal/app/workers/processors"
	"log/slog"
	"time"
)

type worker struct {
	id              int
	reenqueue       bool
	retryBackoff    time.Duration
	eventsCh        chan any
	eventsProcessor processors.Processor
}

func newWorker(id int, reenqueue bool, retryBackoff time.Duration, eventsCh chan any, eventsProcessor processors.Processor) *worker {
	return &worker{
		id:              id,
		reenqueue:       reenqueue,
		retryBackoff:    retryBackoff,
		eventsCh:        eventsCh,
		eventsProcessor: eventsProcessor,
	}
}

func (w *worker) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.eventsCh:
			if !ok {
				return
			}

			if err := w.eventsProcessor.ProcessEvent(ctx, event); err != nil {
				slog.Error("failed to process event", "worker", w.id, "err", err)

				if w.reenqueue && w.backoff(ctx) {
					w.retry(event)
				}
			}
		}
	}
}

// backoff waits before a retry. It reports false when ctx ended first.
func (w *worker) backoff(ctx context.Context) bool {
	if w.retryBackoff <= 0 {
		return true
	}

	timer := time.NewTimer(w.retryBackoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// retry puts the event back without blocking; a full queue drops it.
func (w *worker) retry(event any) {
	defer func() {
		// The queue may have been closed during shutdown.
		if recover() != nil {
			slog.Warn("events channel closed, dropping event", "worker", w.id)
		}
	}()

	select {
	case w.eventsCh <- event:
	default:
		slog.Warn("events channel full, dropping event", "worker", w.id)
	}
}
