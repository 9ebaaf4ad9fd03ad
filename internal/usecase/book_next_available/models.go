package book_next_available

import (
	"time"

	"laundry-booking-service/internal/domain"
)

// Request модель запроса на авто-бронирование ближайшего свободного слота
type Request struct {
	ResourceID      domain.ResourceID // Какая машина бронируется
	OwnerID         int64             // ID пользователя
	DurationMinutes int               // Длительность; 0 = дефолт из конфигурации
	Notes           *string           // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	ResourceID domain.ResourceID
	OwnerID    int64
	StartTime  time.Time
	EndTime    time.Time
	Notes      *string
	CreatedAt  time.Time
}

func fromDomain(res *domain.Reservation) *Response {
	return &Response{
		ID:         res.ID,
		ResourceID: res.ResourceID,
		OwnerID:    res.OwnerID,
		StartTime:  res.Interval.Start,
		EndTime:    res.Interval.End,
		Notes:      res.Notes,
		CreatedAt:  res.CreatedAt,
	}
}
