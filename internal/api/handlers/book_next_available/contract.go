package book_next_available

import (
	"context"

	bookNextAvailable "laundry-booking-service/internal/usecase/book_next_available"
)

type BookNextAvailableUseCase interface {
	Execute(ctx context.Context, req *bookNextAvailable.Request) (*bookNextAvailable.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
