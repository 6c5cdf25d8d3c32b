package clock

import "time"

// Clock provides time to the application.
// An interface so sync timestamps and reminder windows are deterministic in tests.
type Clock interface {
	Now() time.Time
}
