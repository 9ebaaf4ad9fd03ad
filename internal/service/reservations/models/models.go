package models

import (
	"time"

	"laundry-booking-service/internal/domain"
)

// Request модели

// ListRangeRequest запрос календарного списка бронирований
type ListRangeRequest struct {
	ResourceID *domain.ResourceID // Фильтр по машине (опционально)
	RangeStart *time.Time         // Начало диапазона; nil = сейчас
	RangeEnd   *time.Time         // Конец диапазона; nil = начало + месяц
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID         int64             `json:"id"`
	ResourceID domain.ResourceID `json:"resourceId"`
	OwnerID    int64             `json:"ownerId"`
	StartTime  time.Time         `json:"startTime"`
	EndTime    time.Time         `json:"endTime"`
	Notes      *string           `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(res *domain.Reservation) *ReservationResponse {
	if res == nil {
		return nil
	}

	return &ReservationResponse{
		ID:         res.ID,
		ResourceID: res.ResourceID,
		OwnerID:    res.OwnerID,
		StartTime:  res.Interval.Start,
		EndTime:    res.Interval.End,
		Notes:      res.Notes,
		CreatedAt:  res.CreatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, res := range reservations {
		if r := FromDomainReservation(res); r != nil {
			resp.Reservations = append(resp.Reservations, *r)
		}
	}

	return resp
}
