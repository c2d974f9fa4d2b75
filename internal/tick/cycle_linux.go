//go:build linux

package tick

import "golang.org/x/sys/unix"

var clockGettime = unix.ClockGettime

// rawCounter reads CLOCK_MONOTONIC_RAW, which the kernel derives from the
// hardware counter without NTP slewing.
type rawCounter struct{}

// newCycleCounter probes CLOCK_MONOTONIC_RAW once and keeps the runtime
// monotonic clock if it is unavailable, so one source never mixes epochs.
func newCycleCounter() Source {
	var ts unix.Timespec
	if err := clockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return newMonotonic()
	}
	return rawCounter{}
}

func (rawCounter) Now() int64 {
	var ts unix.Timespec
	_ = clockGettime(unix.CLOCK_MONOTONIC_RAW, &ts)
	return ts.Nano()
}

func (rawCounter) Frequency() float64 { return ticksPerMicrosecond }

func (rawCounter) Name() string { return "monotonic-raw" }
