package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-service/internal/domain"
	reservationRepo "laundry-booking-service/internal/infra/storage/reservation"
)

type fakeRepo struct {
	listActive func(ctx context.Context, resourceID domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error)
	insert     func(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

func (f *fakeRepo) ListActive(ctx context.Context, resourceID domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
	if f.listActive == nil {
		return nil, nil
	}
	return f.listActive(ctx, resourceID, rangeStart, rangeEnd)
}

func (f *fakeRepo) Insert(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if f.insert == nil {
		res.ID = 1
		res.CreatedAt = time.Now()
		return res, nil
	}
	return f.insert(ctx, res)
}

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeNotifier struct {
	created []*domain.Reservation
}

func (f *fakeNotifier) BookingCreated(res *domain.Reservation) {
	f.created = append(f.created, res)
}

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testConstraints() domain.BookingConstraints {
	return domain.BookingConstraints{
		DurationMinutes:    120,
		OperatingWindow:    domain.OperatingWindow{StartHour: 6, EndHour: 23},
		SearchHorizonDays:  7,
		MinimumLeadMinutes: 30,
	}
}

func newTestUseCase(repo *fakeRepo, tx *fakeTxManager, notifier *fakeNotifier, now time.Time) *UseCase {
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	uc := NewUseCase(repo, tx, n, testConstraints(), time.UTC, nopLogger{})
	uc.timeProvider = &fakeTime{now: now}
	return uc
}

func TestCreateBooking_Success(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, notifier, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: domain.ResourceWasher,
		OwnerID:    7,
		StartTime:  now.Add(time.Hour),
		EndTime:    now.Add(3 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, domain.ResourceWasher, resp.ResourceID)
	assert.Equal(t, int64(7), resp.OwnerID)
	assert.Len(t, notifier.created, 1)
}

func TestCreateBooking_ValidationOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("unknown resource reported first", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, nil, now)
		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: "dishwasher",
			OwnerID:    7,
			StartTime:  now, // тоже нарушает lead time, но ресурс важнее
			EndTime:    now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrUnknownResource)
	})

	t.Run("malformed interval before lead time", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, nil, now)
		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(2 * time.Hour),
			EndTime:    now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("lead time before operating hours", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, nil, now)
		// Начало в прошлом и одновременно вне рабочих часов
		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(-10 * time.Hour),
			EndTime:    now.Add(-8 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrLeadTimeViolation)
	})
}

func TestCreateBooking_LeadTimeBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("start exactly at now plus lead is allowed", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, nil, now)
		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(30 * time.Minute),
			EndTime:    now.Add(90 * time.Minute),
		})
		assert.NoError(t, err)
	})

	t.Run("one second earlier is rejected", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, nil, now)
		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(30*time.Minute - time.Second),
			EndTime:    now.Add(90 * time.Minute),
		})
		assert.ErrorIs(t, err, ErrLeadTimeViolation)
	})
}

func TestCreateBooking_OperatingHours(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{}, nil, now)

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID: domain.ResourceWasher,
		OwnerID:    7,
		StartTime:  time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrOutsideOperatingHours)
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("overlap found by range check", func(t *testing.T) {
		existing := &domain.Reservation{
			ID:         42,
			ResourceID: domain.ResourceWasher,
			OwnerID:    3,
			Interval:   domain.Interval{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
		}
		repo := &fakeRepo{
			listActive: func(ctx context.Context, resourceID domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
				return []*domain.Reservation{existing}, nil
			},
		}
		uc := newTestUseCase(repo, &fakeTxManager{}, nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(90 * time.Minute),
			EndTime:    now.Add(3 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("conflict from store insert maps to same error", func(t *testing.T) {
		repo := &fakeRepo{
			insert: func(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
				return nil, reservationRepo.ErrSlotConflict
			},
		}
		uc := newTestUseCase(repo, &fakeTxManager{}, nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(time.Hour),
			EndTime:    now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("back to back with existing succeeds", func(t *testing.T) {
		existing := &domain.Reservation{
			ID:         42,
			ResourceID: domain.ResourceWasher,
			Interval:   domain.Interval{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
		}
		repo := &fakeRepo{
			listActive: func(ctx context.Context, resourceID domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
				return []*domain.Reservation{existing}, nil
			},
		}
		uc := newTestUseCase(repo, &fakeTxManager{}, nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(2 * time.Hour),
			EndTime:    now.Add(3 * time.Hour),
		})
		assert.NoError(t, err)
	})
}

func TestCreateBooking_StoreUnavailableRetry(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("second attempt succeeds", func(t *testing.T) {
		calls := 0
		repo := &fakeRepo{
			insert: func(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("connection reset")
				}
				res.ID = 5
				return res, nil
			},
		}
		uc := newTestUseCase(repo, &fakeTxManager{}, nil, now)

		resp, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(time.Hour),
			EndTime:    now.Add(2 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
		assert.Equal(t, 2, calls)
	})

	t.Run("persistent failure surfaces as store unavailable", func(t *testing.T) {
		repo := &fakeRepo{
			insert: func(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
				return nil, errors.New("connection reset")
			},
		}
		uc := newTestUseCase(repo, &fakeTxManager{}, nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(time.Hour),
			EndTime:    now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("transaction layer failure counts too", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, &fakeTxManager{err: errors.New("serialization retries exhausted")}, nil, now)

		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: domain.ResourceWasher,
			OwnerID:    7,
			StartTime:  now.Add(time.Hour),
			EndTime:    now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
