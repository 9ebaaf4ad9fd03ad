package domain

import "time"

// ResourceID identifies a bookable machine. Each resource is scheduled
// independently of the others.
type ResourceID string

const (
	ResourceWasher ResourceID = "washer"
	ResourceDryer  ResourceID = "dryer"
)

// KnownResource reports whether the id names a machine this facility has.
func KnownResource(id ResourceID) bool {
	return id == ResourceWasher || id == ResourceDryer
}

// Reservation is a committed booking of one resource for one interval.
// Reservations are immutable after creation; they are removed through
// store-level delete, never edited in place.
type Reservation struct {
	ID         int64
	ResourceID ResourceID
	OwnerID    int64
	Interval   Interval
	Notes      *string
	CreatedAt  time.Time
}
