package domain

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when an interval fails basic validation
// (zero endpoints or start >= end). Intervals are validated once, at
// construction; downstream code can assume a well-formed value.
var ErrInvalidInterval = errors.New("domain: invalid interval")

// Interval is a half-open time range [Start, End).
// End-exclusive semantics let back-to-back reservations share a boundary
// instant without conflicting.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval constructs a validated interval. The only way to obtain
// an Interval should be through this constructor.
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, ErrInvalidInterval
	}
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
// Touching endpoints do not count as overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// DurationMinutes returns the interval length in whole minutes.
func (i Interval) DurationMinutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// Within reports whether both endpoints fall inside the daily operating
// window, evaluated in the facility's local civil time. An interval that
// crosses midnight never fits a same-day window and is rejected rather
// than truncated.
func (i Interval) Within(window OperatingWindow, loc *time.Location) bool {
	start := i.Start.In(loc)
	end := i.End.In(loc)

	y, m, d := start.Date()
	windowOpen := time.Date(y, m, d, window.StartHour, 0, 0, 0, loc)
	windowClose := time.Date(y, m, d, window.EndHour, 0, 0, 0, loc)

	// Both bounds are anchored to the start's civil day, so an interval
	// spanning midnight ends after windowClose and fails here.
	return !start.Before(windowOpen) && !end.After(windowClose)
}
