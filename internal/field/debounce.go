package field

import "time"

// Debouncer coalesces a burst of triggers into one action that becomes ready
// after Delay of quiet. It is driven by caller-supplied timestamps, so it
// needs no timers and runs on the frame thread.
type Debouncer struct {
	Delay time.Duration

	deadline time.Duration
	pending  bool
}

// Trigger records an event at now and pushes the deadline back.
func (d *Debouncer) Trigger(now time.Duration) {
	d.deadline = now + d.Delay
	d.pending = true
}

// Ready reports true exactly once per burst, on the first call at or after
// the deadline.
func (d *Debouncer) Ready(now time.Duration) bool {
	if !d.pending || now < d.deadline {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether a burst is waiting to fire.
func (d *Debouncer) Pending() bool { return d.pending }
