package book_next_available

import (
	"time"

	"laundry-booking-service/internal/domain"
	bookNextAvailable "laundry-booking-service/internal/usecase/book_next_available"
)

// BookNextAvailableRequest HTTP request model
type BookNextAvailableRequest struct {
	ResourceID      string  `json:"resourceId"`                // "washer" | "dryer"
	DurationMinutes int     `json:"durationMinutes,omitempty"` // 0 = дефолт сервиса
	Notes           *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64   `json:"id"`
	ResourceID string  `json:"resourceId"`
	OwnerID    int64   `json:"ownerId"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookNextAvailableRequest) ToUseCaseRequest(userID int64) *bookNextAvailable.Request {
	return &bookNextAvailable.Request{
		ResourceID:      domain.ResourceID(r.ResourceID),
		OwnerID:         userID,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookNextAvailable.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:         resp.ID,
		ResourceID: string(resp.ResourceID),
		OwnerID:    resp.OwnerID,
		StartTime:  resp.StartTime.Format(time.RFC3339),
		EndTime:    resp.EndTime.Format(time.RFC3339),
		Notes:      resp.Notes,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
