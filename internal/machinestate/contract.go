package machinestate

import (
	"context"

	"laundry-booking-service/internal/domain"
)

// DeviceFeed источник наблюдений состояния машин
type DeviceFeed interface {
	GetStatus(ctx context.Context, machine domain.ResourceID) (*domain.DeviceSample, error)
	Enabled() bool
}

// Metrics интерфейс метрик циклов опроса
type Metrics interface {
	IncPollCycle(machine, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
