package book_next_available

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry-booking-service/internal/domain"
	reservationRepo "laundry-booking-service/internal/infra/storage/reservation"
)

// UseCase use case авто-бронирования ближайшего свободного слота
type UseCase struct {
	reservationRepo ReservationRepository
	notifier        Notifier
	defaults        domain.BookingConstraints
	location        *time.Location
	maxRetries      int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	notifier Notifier,
	defaults domain.BookingConstraints,
	location *time.Location,
	maxRetries int,
	logger Logger,
) *UseCase {
	if maxRetries <= 0 {
		maxRetries = domain.DefaultMaxAutoBookRetries
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		notifier:        notifier,
		defaults:        defaults,
		location:        location,
		maxRetries:      maxRetries,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute находит и бронирует ближайший свободный слот.
//
// Поиск и вставка не атомарны: между ними другой жилец мог занять
// найденный интервал. Арбитр - атомарная вставка хранилища; на её
// конфликт поиск повторяется от конца отвергнутого интервала, не более
// maxRetries попыток суммарно, после чего возвращается ErrNoSlotFound.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookNextAvailable: resource=%s, owner=%d, duration=%d",
		req.ResourceID, req.OwnerID, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookNextAvailable: validation failed: %v", err)
		return nil, err
	}

	// 2. Ограничения поиска: дефолты конфигурации, длительность из запроса
	constraints := uc.defaults
	if req.DurationMinutes > 0 {
		constraints.DurationMinutes = req.DurationMinutes
	}
	if !constraints.IsValid() {
		return nil, fmt.Errorf("%w: inconsistent search constraints", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	anchor := now

	storeRetried := false

	// 3. Поиск -> вставка, с повтором от конца отвергнутого интервала
	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		interval, err := findNext(ctx, uc.reservationRepo, req.ResourceID, constraints, anchor, now, uc.location)
		if err != nil {
			if errors.Is(err, ErrNoSlotFound) {
				uc.logger.Info("BookNextAvailable: no slot within %d days for resource=%s",
					constraints.SearchHorizonDays, req.ResourceID)
				return nil, ErrNoSlotFound
			}
			uc.logger.Error("BookNextAvailable: search failed: %v", err)
			return nil, err
		}

		reservation := &domain.Reservation{
			ResourceID: req.ResourceID,
			OwnerID:    req.OwnerID,
			Interval:   interval,
			Notes:      req.Notes,
		}

		created, err := uc.reservationRepo.Insert(ctx, reservation)
		if err == nil {
			uc.logger.Info("BookNextAvailable: reserved id=%d [%s, %s) on attempt %d",
				created.ID, interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339), attempt)

			if uc.notifier != nil {
				uc.notifier.BookingCreated(created)
			}
			return fromDomain(created), nil
		}

		// Гонка: кто-то занял найденный слот между поиском и вставкой.
		// Повторяем поиск от конца отвергнутого интервала
		if errors.Is(err, reservationRepo.ErrSlotConflict) {
			uc.logger.Warn("BookNextAvailable: slot [%s, %s) taken concurrently, attempt %d/%d",
				interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339), attempt, uc.maxRetries)
			anchor = interval.End
			continue
		}

		// Временный сбой хранилища: одна повторная попытка той же вставки
		if !storeRetried {
			uc.logger.Warn("BookNextAvailable: store unavailable, retrying once: %v", err)
			storeRetried = true
			created, err = uc.reservationRepo.Insert(ctx, reservation)
			if err == nil {
				if uc.notifier != nil {
					uc.notifier.BookingCreated(created)
				}
				return fromDomain(created), nil
			}
			if errors.Is(err, reservationRepo.ErrSlotConflict) {
				anchor = interval.End
				continue
			}
		}

		uc.logger.Error("BookNextAvailable: failed to insert reservation: %v", err)
		return nil, fmt.Errorf("%w: insert reservation: %v", ErrStoreUnavailable, err)
	}

	uc.logger.Warn("BookNextAvailable: retries exhausted (%d) for resource=%s", uc.maxRetries, req.ResourceID)
	return nil, ErrNoSlotFound
}
