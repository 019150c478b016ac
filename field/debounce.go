package field

import "time"

// Debouncer collapses bursts of size notifications into one settled size.
// Each notification pushes the deadline out by the quiet interval.
type Debouncer struct {
	Interval time.Duration

	deadline      time.Time
	width, height int
	pending       bool
}

// Notify records a raw size observation and restarts the quiet period.
func (d *Debouncer) Notify(width, height int, now time.Time) {
	d.width, d.height = width, height
	d.deadline = now.Add(d.Interval)
	d.pending = true
}

// Pending reports whether a size is waiting for its quiet period to pass.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Settle returns the last observed size once the quiet period has elapsed.
// It reports ok at most once per burst.
func (d *Debouncer) Settle(now time.Time) (width, height int, ok bool) {
	if !d.pending || now.Before(d.deadline) {
		return 0, 0, false
	}
	d.pending = false
	return d.width, d.height, true
}

// Cancel drops any pending size.
func (d *Debouncer) Cancel() {
	d.pending = false
}
