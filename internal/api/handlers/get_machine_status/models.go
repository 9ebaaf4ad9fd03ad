package get_machine_status

import (
	"time"

	"laundry-booking-service/internal/domain"
)

// MachineStatusResponse HTTP response model
type MachineStatusResponse struct {
	MachineID            string  `json:"machineId"`
	Enabled              bool    `json:"enabled"`
	Status               string  `json:"status"`
	Running              bool    `json:"running"`
	TimeRemainingMinutes *int    `json:"timeRemainingMinutes"`
	IsStale              bool    `json:"isStale"`
	ErrorKind            *string `json:"errorKind,omitempty"`
	ObservedAt           string  `json:"observedAt"`
}

// FromDerivedState конвертирует состояние машины в HTTP response
func FromDerivedState(machine domain.ResourceID, state domain.DerivedMachineState) *MachineStatusResponse {
	resp := &MachineStatusResponse{
		MachineID:            string(machine),
		Enabled:              state.DisplayStatus != domain.StatusUnconfigured,
		Status:               string(state.DisplayStatus),
		Running:              state.DisplayStatus == domain.StatusRunning,
		TimeRemainingMinutes: state.TimeRemainingMinutes,
		IsStale:              state.IsStale,
		ObservedAt:           state.ObservedAt.Format(time.RFC3339),
	}

	if state.ErrorKind != nil {
		kind := string(*state.ErrorKind)
		resp.ErrorKind = &kind
	}

	return resp
}
