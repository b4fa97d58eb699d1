package workers

import (
	"context"
	"francoggm/versapay-checkout/internal/app/workers/processors"
	"sync"
	"time"
)

const defaultRetryBackoff = time.Second

type Option func(*Orchestrator)

// WithRetryBackoff sets how long a worker waits before putting a failed
// event back on the queue.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.retryBackoff = d
	}
}

type Orchestrator struct {
	workers         []*worker
	eventsCh        chan any
	eventsProcessor processors.Processor
	retryBackoff    time.Duration
	wg              sync.WaitGroup
}

func NewOrchestrator(workersCount int, reenqueue bool, eventsCh chan any, eventsProcessor processors.Processor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		eventsCh:        eventsCh,
		eventsProcessor: eventsProcessor,
		retryBackoff:    defaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(o)
	}

	for id := range workersCount {
		worker := newWorker(id, reenqueue, o.retryBackoff, eventsCh, eventsProcessor)
		o.workers = append(o.workers, worker)
	}

	return o
}

func (o *Orchestrator) StartWorkers(ctx context.Context) {
	for _, worker := range o.workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			worker.start(ctx)
		}()
	}
}

// Wait blocks until every worker returned, either because ctx was cancelled
// or the events channel was closed and drained.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
