package widget

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Cancel stops a pending callback. It must be called from the scheduler
// goroutine.
type Cancel func()

// Scheduler serialises every controller callback onto one goroutine.
type Scheduler interface {
	Post(fn func())
	After(d time.Duration, fn func()) Cancel
}

// LoopScheduler runs posted callbacks in order on the goroutine that calls
// Run. Timers fire through the same queue.
type LoopScheduler struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{
		wake: make(chan struct{}, 1),
	}
}

func (s *LoopScheduler) Post(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *LoopScheduler) After(d time.Duration, fn func()) Cancel {
	var cancelled atomic.Bool
	timer := time.AfterFunc(d, func() {
		s.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})

	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

// Run drains the queue until ctx is done.
func (s *LoopScheduler) Run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.closed = true
		s.queue = nil
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return
			}
			fn()
		}

		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
	}
}
