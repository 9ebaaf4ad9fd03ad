package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-service/internal/domain"
	reservationRepo "laundry-booking-service/internal/infra/storage/reservation"
	"laundry-booking-service/internal/service/reservations/models"
)

type fakeRepo struct {
	getByID    func(ctx context.Context, id int64) (*domain.Reservation, error)
	getByOwner func(ctx context.Context, ownerID int64) ([]*domain.Reservation, error)
	listRange  func(ctx context.Context, resourceID *domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error)
	deleteFn   func(ctx context.Context, id int64) error
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return f.getByID(ctx, id)
}

func (f *fakeRepo) GetByOwner(ctx context.Context, ownerID int64) ([]*domain.Reservation, error) {
	return f.getByOwner(ctx, ownerID)
}

func (f *fakeRepo) ListRange(ctx context.Context, resourceID *domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
	return f.listRange(ctx, resourceID, rangeStart, rangeEnd)
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func sampleReservation(id, ownerID int64) *domain.Reservation {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:         id,
		ResourceID: domain.ResourceWasher,
		OwnerID:    ownerID,
		Interval:   domain.Interval{Start: start, End: start.Add(2 * time.Hour)},
		CreatedAt:  start.Add(-time.Hour),
	}
}

func TestServiceGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &fakeRepo{
			getByID: func(ctx context.Context, id int64) (*domain.Reservation, error) {
				return sampleReservation(id, 7), nil
			},
		}
		svc := NewService(repo, nopLogger{})

		resp, err := svc.GetByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeRepo{
			getByID: func(ctx context.Context, id int64) (*domain.Reservation, error) {
				return nil, reservationRepo.ErrReservationNotFound
			},
		}
		svc := NewService(repo, nopLogger{})

		_, err := svc.GetByID(context.Background(), 42)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestServiceListRange(t *testing.T) {
	t.Run("defaults to a month from now", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		repo := &fakeRepo{
			listRange: func(ctx context.Context, resourceID *domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
				gotStart, gotEnd = rangeStart, rangeEnd
				return nil, nil
			},
		}
		svc := NewService(repo, nopLogger{})
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		svc.timeProvider = &fakeTime{now: now}

		_, err := svc.ListRange(context.Background(), &models.ListRangeRequest{})
		require.NoError(t, err)
		assert.Equal(t, now, gotStart)
		assert.Equal(t, now.AddDate(0, 1, 0), gotEnd)
	})

	t.Run("unknown resource filter", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nopLogger{})
		bad := domain.ResourceID("dishwasher")

		_, err := svc.ListRange(context.Background(), &models.ListRangeRequest{ResourceID: &bad})
		assert.ErrorIs(t, err, ErrUnknownResource)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nopLogger{})
		from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, -1)

		_, err := svc.ListRange(context.Background(), &models.ListRangeRequest{RangeStart: &from, RangeEnd: &to})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

func TestServiceCancel(t *testing.T) {
	t.Run("owner can cancel", func(t *testing.T) {
		deleted := false
		repo := &fakeRepo{
			getByID: func(ctx context.Context, id int64) (*domain.Reservation, error) {
				return sampleReservation(id, 7), nil
			},
			deleteFn: func(ctx context.Context, id int64) error {
				deleted = true
				return nil
			},
		}
		svc := NewService(repo, nopLogger{})

		require.NoError(t, svc.Cancel(context.Background(), 42, 7))
		assert.True(t, deleted)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		repo := &fakeRepo{
			getByID: func(ctx context.Context, id int64) (*domain.Reservation, error) {
				return sampleReservation(id, 7), nil
			},
			deleteFn: func(ctx context.Context, id int64) error {
				t.Fatal("delete must not be called")
				return nil
			},
		}
		svc := NewService(repo, nopLogger{})

		err := svc.Cancel(context.Background(), 42, 8)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing reservation", func(t *testing.T) {
		repo := &fakeRepo{
			getByID: func(ctx context.Context, id int64) (*domain.Reservation, error) {
				return nil, reservationRepo.ErrReservationNotFound
			},
		}
		svc := NewService(repo, nopLogger{})

		err := svc.Cancel(context.Background(), 42, 7)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}
