package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// LocalClock reports wall time in a fixed location so day, week and month
// boundaries follow the user's calendar rather than UTC.
type LocalClock struct {
	Location *time.Location
}

func (c LocalClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
