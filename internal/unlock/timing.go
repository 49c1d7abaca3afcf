package unlock

import (
	"fmt"
	"math"
	"time"
)

// Reference timings for the checking animation.
const (
	DefaultDuration    = 2500 * time.Millisecond
	DefaultInterval    = 50 * time.Millisecond
	DefaultSettleDelay = 300 * time.Millisecond
)

// Timing controls the pace of the checking animation.
type Timing struct {
	Duration    time.Duration // Total time to reach 100%
	Interval    time.Duration // Period between progress ticks
	SettleDelay time.Duration // Pause between 100% and completion
}

// DefaultTiming returns the reference 2500ms/50ms/300ms timing.
func DefaultTiming() Timing {
	return Timing{
		Duration:    DefaultDuration,
		Interval:    DefaultInterval,
		SettleDelay: DefaultSettleDelay,
	}
}

// Validate rejects timings that could never complete.
func (t Timing) Validate() error {
	if t.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", t.Duration)
	}
	if t.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", t.Interval)
	}
	if t.Interval > t.Duration {
		return fmt.Errorf("interval %s exceeds duration %s", t.Interval, t.Duration)
	}
	if t.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative, got %s", t.SettleDelay)
	}
	return nil
}

// Steps returns the number of ticks needed to reach 100%.
func (t Timing) Steps() int {
	return int(math.Ceil(t.steps()))
}

// ProgressAt returns min(100, step/steps*100).
func (t Timing) ProgressAt(step int) float64 {
	return math.Min(100, float64(step)/t.steps()*100)
}

func (t Timing) steps() float64 {
	return float64(t.Duration) / float64(t.Interval)
}
