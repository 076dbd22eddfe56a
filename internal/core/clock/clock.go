// Package clock abstracts wall time so TTL and rate-limit logic can be
// driven deterministically in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now.
type System struct{}

// Now returns the current wall time.
func (System) Now() time.Time { return time.Now() }
