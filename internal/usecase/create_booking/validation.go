package create_booking

import (
	"fmt"
	"time"

	"laundry-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !domain.KnownResource(req.ResourceID) {
		return fmt.Errorf("%w: %q", ErrUnknownResource, req.ResourceID)
	}

	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateLeadTime проверяет, что бронирование начинается не раньше
// now + minimumLead. Старт ровно на границе допустим
func validateLeadTime(interval domain.Interval, now time.Time, minimumLeadMinutes int) error {
	earliest := now.Add(time.Duration(minimumLeadMinutes) * time.Minute)
	if interval.Start.Before(earliest) {
		return fmt.Errorf("%w: must start at least %d minutes from now", ErrLeadTimeViolation, minimumLeadMinutes)
	}
	return nil
}

// validateOperatingHours проверяет, что интервал лежит внутри рабочих часов
func validateOperatingHours(interval domain.Interval, window domain.OperatingWindow, loc *time.Location) error {
	if !interval.Within(window, loc) {
		return fmt.Errorf("%w: allowed window is %02d:00-%02d:00", ErrOutsideOperatingHours, window.StartHour, window.EndHour)
	}
	return nil
}

// findOverlap ищет первое пересечение с существующими бронированиями.
// Список отсортирован по началу, достаточно первого попадания
func findOverlap(interval domain.Interval, existing []*domain.Reservation) *domain.Reservation {
	for _, res := range existing {
		if interval.Overlaps(res.Interval) {
			return res
		}
	}
	return nil
}
