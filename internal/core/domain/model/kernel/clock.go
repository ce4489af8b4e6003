package kernel

import "time"

// Clock supplies transition timestamps. Implementations must return UTC times
// truncated to microseconds so that every store round-trips them unchanged and
// durations derived from them are reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current UTC time at microsecond precision.
func (SystemClock) Now() time.Time {
	return Timestamp(time.Now())
}

// Timestamp normalizes t to the precision stored for transitions.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
