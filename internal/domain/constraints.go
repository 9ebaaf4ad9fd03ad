package domain

// OperatingWindow is a daily window expressed as hour-of-day bounds
// [StartHour, EndHour) in the facility's local time.
type OperatingWindow struct {
	StartHour int
	EndHour   int
}

// BookingConstraints bound a next-available search and the admission
// checks. Immutable per call; the caller supplies them (usually from
// configuration, with a per-request duration override).
type BookingConstraints struct {
	DurationMinutes    int
	OperatingWindow    OperatingWindow
	SearchHorizonDays  int
	MinimumLeadMinutes int
}

// IsValid reports whether the constraints are internally consistent.
func (c BookingConstraints) IsValid() bool {
	if c.DurationMinutes < MinDurationMinutes || c.DurationMinutes > MaxDurationMinutes {
		return false
	}
	if c.OperatingWindow.StartHour < 0 || c.OperatingWindow.EndHour > 24 {
		return false
	}
	if c.OperatingWindow.StartHour >= c.OperatingWindow.EndHour {
		return false
	}
	if c.SearchHorizonDays <= 0 || c.SearchHorizonDays > MaxSearchHorizonDays {
		return false
	}
	return c.MinimumLeadMinutes >= 0
}

// WindowMinutes returns the length of the daily operating window.
func (c BookingConstraints) WindowMinutes() int {
	return (c.OperatingWindow.EndHour - c.OperatingWindow.StartHour) * 60
}
