package get_calendar

import (
	"context"

	"laundry-booking-service/internal/service/reservations/models"
)

type ReservationService interface {
	ListRange(ctx context.Context, req *models.ListRangeRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
