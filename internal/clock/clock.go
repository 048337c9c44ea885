// Package clock abstracts time reads so that services never call time.Now
// directly. Date-sensitive logic (overlap windows, plan horizons, load dates)
// becomes deterministic under test by injecting a fixed clock.
package clock

import "time"

type Clock interface {
	Now() time.Time
	// Today returns the current date truncated to midnight local time.
	Today() time.Time
}

type sistema struct{}

func (sistema) Now() time.Time   { return time.Now() }
func (sistema) Today() time.Time { return Fecha(time.Now()) }

// Sistema returns the wall clock.
func Sistema() Clock { return sistema{} }

type fija struct{ t time.Time }

func (f fija) Now() time.Time   { return f.t }
func (f fija) Today() time.Time { return Fecha(f.t) }

// Fija returns a clock frozen at t, for tests.
func Fija(t time.Time) Clock { return fija{t: t} }

// Fecha truncates t to midnight in its own location.
func Fecha(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
