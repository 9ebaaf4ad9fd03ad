package domain

// Default booking constraints (mirrors the household UI defaults)
const (
	DefaultOperatingStartHour = 6
	DefaultOperatingEndHour   = 23
	DefaultSearchHorizonDays  = 7
	DefaultMinimumLeadMinutes = 30
	DefaultDurationMinutes    = 120
	DefaultMaxAutoBookRetries = 3
)

// Business validation constants
const (
	MinDurationMinutes   = 15
	MaxDurationMinutes   = 480 // 8 hours
	MaxSearchHorizonDays = 60
	MaxNotesLength       = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
