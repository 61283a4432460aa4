package timex

import "time"

// Clock abstracts time.Now so that expiry logic can be tested
// deterministically. Production code uses SystemClock; tests inject a
// fixed or manually advanced implementation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
