package book_next_available

import (
	"context"
	"time"

	"laundry-booking-service/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// ListActive возвращает бронирования ресурса, пересекающие диапазон,
	// отсортированные по началу (один пакетный запрос на весь горизонт)
	ListActive(ctx context.Context, resourceID domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error)
	Insert(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// Notifier интерфейс отправки уведомлений о созданном бронировании
type Notifier interface {
	BookingCreated(res *domain.Reservation)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
