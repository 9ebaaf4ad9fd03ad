package create_booking

import (
	"time"

	"laundry-booking-service/internal/domain"
	createBooking "laundry-booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID string  `json:"resourceId"`          // "washer" | "dryer"
	StartTime  string  `json:"startTime"`           // RFC 3339
	EndTime    string  `json:"endTime"`             // RFC 3339, эксклюзивный
	Notes      *string `json:"notes,omitempty"`
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
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ResourceID: domain.ResourceID(r.ResourceID),
		OwnerID:    userID,
		StartTime:  startTime,
		EndTime:    endTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *ReservationResponse {
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
