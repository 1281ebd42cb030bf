package core

import "time"

// Clock returns milliseconds since boot. The controller never reads wall
// time; everything is deadlines against this counter, so tests can install
// a fake clock and step it tick by tick.
//
// The counter wraps after ~49 days, same as the deadline arithmetic.
type Clock func() uint32

// SystemClock returns a Clock backed by the runtime monotonic clock.
func SystemClock() Clock {
	start := time.Now()
	return func() uint32 {
		return uint32(time.Since(start) / time.Millisecond)
	}
}
