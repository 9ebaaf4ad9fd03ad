package reservations

import (
	"context"
	"errors"
	"fmt"

	"laundry-booking-service/internal/domain"
	reservationRepo "laundry-booking-service/internal/infra/storage/reservation"
	"laundry-booking-service/internal/service/reservations/models"
)

// Сколько вперед показывает календарь, если границы не заданы
const defaultRangeMonths = 1

// Service сервис для чтения и отмены бронирований
type Service struct {
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Календарь общий для всех жильцов, проверка прав не требуется
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает бронирования пользователя, сначала будущие
func (s *Service) GetUserReservations(ctx context.Context, ownerID int64) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d", ownerID)

	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), ownerID)
	return models.FromDomainReservationList(reservations), nil
}

// ListRange получает календарь бронирований за диапазон.
// Без явных границ показывается месяц вперед от текущего момента
func (s *Service) ListRange(ctx context.Context, req *models.ListRangeRequest) (*models.ReservationListResponse, error) {
	if req.ResourceID != nil && !domain.KnownResource(*req.ResourceID) {
		s.logger.Warn("ListRange: unknown resource %q", *req.ResourceID)
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, *req.ResourceID)
	}

	rangeStart := s.timeProvider.Now()
	if req.RangeStart != nil {
		rangeStart = *req.RangeStart
	}

	rangeEnd := rangeStart.AddDate(0, defaultRangeMonths, 0)
	if req.RangeEnd != nil {
		rangeEnd = *req.RangeEnd
	}

	if !rangeStart.Before(rangeEnd) {
		s.logger.Warn("ListRange: invalid range [%s, %s)", rangeStart, rangeEnd)
		return nil, ErrInvalidRange
	}

	reservations, err := s.reservationRepo.ListRange(ctx, req.ResourceID, rangeStart, rangeEnd)
	if err != nil {
		s.logger.Error("ListRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRange - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRange: fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование.
// Пользователь может отменить только своё бронирование
func (s *Service) Cancel(ctx context.Context, reservationID int64, userID int64) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, userID)

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if res.OwnerID != userID {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", userID, reservationID)
		return ErrAccessDenied
	}

	if err := s.reservationRepo.Delete(ctx, reservationID); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found during delete", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)
	return nil
}
