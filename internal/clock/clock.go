// Package clock provides the time source used by recency-dependent scoring.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System is the wall clock
var System Clock = systemClock{}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

// Fixed returns a clock that always reports t
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

// MonthsBetween returns the fractional number of average-length months from
// earlier to later. Negative spans are reported as zero.
func MonthsBetween(earlier, later time.Time) float64 {
	days := later.Sub(earlier).Hours() / 24
	if days < 0 {
		return 0
	}
	return days / 30.4375
}
