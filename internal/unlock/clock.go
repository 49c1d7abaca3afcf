package unlock

import "time"

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback; it reports false if it already fired.
	Stop() bool
}

// Clock schedules one-shot callbacks. Controllers chain one callback per
// tick, so at most one is pending per controller.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}
