package get_machine_status

import (
	"time"

	"laundry-booking-service/internal/domain"
)

// StateProvider отдает текущее отображаемое состояние машины
type StateProvider interface {
	Snapshot(machine domain.ResourceID, now time.Time) domain.DerivedMachineState
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
