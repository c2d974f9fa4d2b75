// Package tick provides the monotonic tick counter used for timing and RNG
// seeding, with a counter strategy chosen once from the capability code.
package tick

import (
	"time"

	"github.com/cwbudde/algo-accel/internal/cpu"
)

// ticksPerMicrosecond is the calibration of the nanosecond counters.
const ticksPerMicrosecond = 1000.0

// Source is a monotonic tick counter together with its calibration.
// Now()/Frequency() yields microseconds.
type Source interface {
	// Now returns the current tick count. Successive calls never decrease.
	Now() int64

	// Frequency returns ticks per microsecond. Always > 0.
	Frequency() float64

	// Name identifies the counter strategy.
	Name() string
}

// New selects the counter strategy for a processor with the given features.
// A constant-rate hardware counter selects the high-resolution strategy;
// everything else falls back to the OS microsecond clock.
func New(features cpu.Features) Source {
	if features.HasCycleCounter && !features.ForceGeneric {
		return newCycleCounter()
	}
	return NewOSClock()
}

// Microseconds converts a tick delta measured by s into microseconds.
func Microseconds(s Source, ticks int64) float64 {
	return float64(ticks) / s.Frequency()
}

// Duration converts a tick delta measured by s into a time.Duration.
func Duration(s Source, ticks int64) time.Duration {
	return time.Duration(Microseconds(s, ticks) * float64(time.Microsecond))
}

// osClock counts microseconds on the runtime monotonic clock.
type osClock struct {
	start time.Time
}

// NewOSClock returns the coarse fallback source. Its ticks are microseconds,
// so its frequency is exactly 1.
func NewOSClock() Source {
	return &osClock{start: time.Now()}
}

func (c *osClock) Now() int64 {
	return time.Since(c.start).Microseconds()
}

func (c *osClock) Frequency() float64 { return 1 }

func (c *osClock) Name() string { return "os-clock" }

// monotonic counts nanoseconds on the runtime monotonic clock, which is
// backed by the hardware counter where one is reported.
type monotonic struct {
	start time.Time
}

func newMonotonic() Source {
	return &monotonic{start: time.Now()}
}

func (c *monotonic) Now() int64 {
	return time.Since(c.start).Nanoseconds()
}

func (c *monotonic) Frequency() float64 { return ticksPerMicrosecond }

func (c *monotonic) Name() string { return "monotonic" }
