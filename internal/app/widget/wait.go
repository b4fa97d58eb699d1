package widget

import (
	"errors"
	"time"
)

var ErrWaitExhausted = errors.New("wait exhausted")

type WaitOptions struct {
	Interval time.Duration
	// MaxAttempts bounds the number of checks; zero polls until cancelled.
	MaxAttempts int
}

type waiter struct {
	sched    Scheduler
	opts     WaitOptions
	cond     func() bool
	done     func(error)
	attempts int
	stopped  bool
	timer    Cancel
}

// WaitFor checks cond right away and then every Interval until it holds,
// calling done(nil). After MaxAttempts failed checks done receives
// ErrWaitExhausted. done is never called once the returned Cancel ran.
func WaitFor(sched Scheduler, opts WaitOptions, cond func() bool, done func(error)) Cancel {
	w := &waiter{
		sched: sched,
		opts:  opts,
		cond:  cond,
		done:  done,
	}

	sched.Post(w.poll)
	return w.cancel
}

func (w *waiter) poll() {
	if w.stopped {
		return
	}

	if w.cond() {
		w.stopped = true
		w.done(nil)
		return
	}

	w.attempts++
	if w.opts.MaxAttempts > 0 && w.attempts >= w.opts.MaxAttempts {
		w.stopped = true
		w.done(ErrWaitExhausted)
		return
	}

	w.timer = w.sched.After(w.opts.Interval, w.poll)
}

func (w *waiter) cancel() {
	w.stopped = true
	if w.timer != nil {
		w.timer()
	}
}
