package booking

import "time"

// Clock abstracts time so the timeout and completion sweeps can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }
