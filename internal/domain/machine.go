package domain

import "time"

// DisplayStatus is the user-facing machine status derived from the
// device feed.
type DisplayStatus string

const (
	StatusUnconfigured DisplayStatus = "unconfigured"
	StatusIdle         DisplayStatus = "idle"
	StatusRunning      DisplayStatus = "running"
	StatusFinished     DisplayStatus = "finished"
	StatusUnknown      DisplayStatus = "unknown"
)

// FeedErrorKind classifies device-feed failures. Feed errors degrade
// the displayed state; they never abort booking operations.
type FeedErrorKind string

const (
	FeedErrUnauthorized FeedErrorKind = "unauthorized"
	FeedErrForbidden    FeedErrorKind = "forbidden"
	FeedErrUnreachable  FeedErrorKind = "unreachable"
)

// DeviceSample is one observation from the device feed. Samples are
// never persisted; the reconciler only derives display state from the
// latest one.
type DeviceSample struct {
	Enabled              bool
	Running              bool
	StatusLabel          DisplayStatus
	TimeRemainingMinutes *int
	ObservedAt           time.Time
}

// NormalizedTimeRemaining passes a non-negative remaining time through
// unchanged and maps absent or negative values to unknown (nil). Zero is
// kept: it is a meaningful "about to finish" signal.
func (s DeviceSample) NormalizedTimeRemaining() *int {
	if s.TimeRemainingMinutes == nil || *s.TimeRemainingMinutes < 0 {
		return nil
	}
	return s.TimeRemainingMinutes
}

// DerivedMachineState is the display-ready machine state. It has no
// identity of its own: it is recomputed from the latest sample and the
// current instant on every poll tick or staleness check.
type DerivedMachineState struct {
	DisplayStatus        DisplayStatus
	TimeRemainingMinutes *int
	IsStale              bool
	ErrorKind            *FeedErrorKind
	ObservedAt           time.Time
}
