package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry-booking-service/internal/domain"
	reservationRepo "laundry-booking-service/internal/infra/storage/reservation"
)

// UseCase use case создания бронирования с явным интервалом
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	notifier        Notifier
	constraints     domain.BookingConstraints
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	notifier Notifier,
	constraints domain.BookingConstraints,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		notifier:        notifier,
		constraints:     constraints,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Порядок валидации фиксированный: некорректный интервал -> lead time ->
// рабочие часы -> пересечения, чтобы самая фундаментальная проблема
// сообщалась первой. Проверка пересечений и вставка выполняются в
// сериализуемой транзакции с блокировкой диапазона; финальный арбитр
// гонок - exclusion constraint базы при вставке.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: resource=%s, owner=%d, start=%s, end=%s",
		req.ResourceID, req.OwnerID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Интервал конструируется один раз, на границе
	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		uc.logger.Warn("CreateBooking: malformed interval: %v", err)
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}

	now := uc.timeProvider.Now()

	// 3. Lead time
	if err := validateLeadTime(interval, now, uc.constraints.MinimumLeadMinutes); err != nil {
		uc.logger.Warn("CreateBooking: lead time violation: owner=%d, start=%s", req.OwnerID, req.StartTime.Format(time.RFC3339))
		return nil, err
	}

	// 4. Рабочие часы (в локальном времени прачечной)
	if err := validateOperatingHours(interval, uc.constraints.OperatingWindow, uc.location); err != nil {
		uc.logger.Warn("CreateBooking: outside operating hours: owner=%d", req.OwnerID)
		return nil, err
	}

	// 5. Проверка пересечений + вставка; одна повторная попытка при
	// временной недоступности хранилища (только на уровне координатора)
	result, err := uc.admitAndInsert(ctx, req, interval)
	if err != nil && errors.Is(err, ErrStoreUnavailable) {
		uc.logger.Warn("CreateBooking: store unavailable, retrying once: %v", err)
		result, err = uc.admitAndInsert(ctx, req, interval)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created reservation id=%d", result.ID)

	// 6. Уведомление не влияет на результат бронирования
	if uc.notifier != nil {
		uc.notifier.BookingCreated(result)
	}

	return fromDomain(result), nil
}

// admitAndInsert выполняет допуск и вставку в одной сериализуемой транзакции
func (uc *UseCase) admitAndInsert(ctx context.Context, req *Request, interval domain.Interval) (*domain.Reservation, error) {
	var result *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Узкий диапазонный запрос ровно под проверяемый интервал, с FOR UPDATE
		existing, err := uc.reservationRepo.ListActive(txCtx, req.ResourceID, interval.Start, interval.End)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list reservations: %v", err)
			return fmt.Errorf("%w: list reservations: %v", ErrStoreUnavailable, err)
		}

		if hit := findOverlap(interval, existing); hit != nil {
			uc.logger.Warn("CreateBooking: slot conflict with reservation id=%d [%s, %s)",
				hit.ID, hit.Interval.Start.Format(time.RFC3339), hit.Interval.End.Format(time.RFC3339))
			return fmt.Errorf("%w: collides with [%s, %s)", ErrSlotConflict,
				hit.Interval.Start.Format(time.RFC3339), hit.Interval.End.Format(time.RFC3339))
		}

		reservation := &domain.Reservation{
			ResourceID: req.ResourceID,
			OwnerID:    req.OwnerID,
			Interval:   interval,
			Notes:      req.Notes,
		}

		created, err := uc.reservationRepo.Insert(txCtx, reservation)
		if err != nil {
			// Конфликт, пойманный базой, выглядит для вызывающего так же,
			// как пойманный локальной проверкой
			if errors.Is(err, reservationRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: conflict detected by store on insert")
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to insert reservation: %v", err)
			return fmt.Errorf("%w: insert reservation: %v", ErrStoreUnavailable, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Ошибка транзакционного слоя (begin/commit, исчерпанные повторы
		// сериализации) - тоже временная недоступность хранилища
		if !errors.Is(err, ErrSlotConflict) && !errors.Is(err, ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: transaction: %v", ErrStoreUnavailable, err)
		}
		return nil, err
	}

	return result, nil
}
