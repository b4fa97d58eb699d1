package widget

import "time"

// Debouncer runs the last triggered function once no trigger arrived for
// the quiet period. Trigger must be called from the scheduler goroutine.
type Debouncer struct {
	sched   Scheduler
	quiet   time.Duration
	pending Cancel
}

func NewDebouncer(sched Scheduler, quiet time.Duration) *Debouncer {
	return &Debouncer{
		sched: sched,
		quiet: quiet,
	}
}

func (d *Debouncer) Trigger(fn func()) {
	if d.pending != nil {
		d.pending()
	}

	d.pending = d.sched.After(d.quiet, func() {
		d.pending = nil
		fn()
	})
}

func (d *Debouncer) Stop() {
	if d.pending != nil {
		d.pending()
		d.pending = nil
	}
}
