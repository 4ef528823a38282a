package model

import "time"

// Clock is an injectable time source so tests can vary timings without
// process-wide side effects.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
