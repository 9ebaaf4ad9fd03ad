package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-service/internal/domain"
)

type fakeReminderRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (f *fakeReminderRepo) ListRange(ctx context.Context, resourceID *domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Reservation
	for _, res := range f.reservations {
		if res.Interval.Start.Before(rangeEnd) && res.Interval.End.After(rangeStart) {
			out = append(out, res)
		}
	}
	return out, nil
}

type captureDispatcher struct {
	jobs []Job
}

func (c *captureDispatcher) Dispatch(job Job) {
	c.jobs = append(c.jobs, job)
}

func upcomingReservation(id, ownerID int64, start time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		ResourceID: domain.ResourceWasher,
		OwnerID:    ownerID,
		Interval:   domain.Interval{Start: start, End: start.Add(2 * time.Hour)},
	}
}

func TestReminderNotifiesUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("owner gets one reminder inside the lead window", func(t *testing.T) {
		repo := &fakeReminderRepo{
			reservations: []*domain.Reservation{
				upcomingReservation(1, 7, now.Add(20*time.Minute)),
			},
		}
		dispatcher := &captureDispatcher{}
		r := NewReminder(repo, dispatcher, 30*time.Minute, nopLogger{})

		r.tick(context.Background(), now)
		r.tick(context.Background(), now.Add(time.Minute))

		require.Len(t, dispatcher.jobs, 1)
		job := dispatcher.jobs[0]
		require.NotNil(t, job.OwnerID)
		assert.Equal(t, int64(7), *job.OwnerID)
		assert.Contains(t, job.Body, "09:20")
	})

	t.Run("reservation outside the lead window is not reminded", func(t *testing.T) {
		repo := &fakeReminderRepo{
			reservations: []*domain.Reservation{
				upcomingReservation(1, 7, now.Add(2*time.Hour)),
			},
		}
		dispatcher := &captureDispatcher{}
		r := NewReminder(repo, dispatcher, 30*time.Minute, nopLogger{})

		r.tick(context.Background(), now)

		assert.Empty(t, dispatcher.jobs)
	})

	t.Run("already running reservation is not reminded", func(t *testing.T) {
		repo := &fakeReminderRepo{
			reservations: []*domain.Reservation{
				upcomingReservation(1, 7, now.Add(-10*time.Minute)),
			},
		}
		dispatcher := &captureDispatcher{}
		r := NewReminder(repo, dispatcher, 30*time.Minute, nopLogger{})

		r.tick(context.Background(), now)

		assert.Empty(t, dispatcher.jobs)
	})

	t.Run("dedupe map is pruned after the start passes", func(t *testing.T) {
		start := now.Add(20 * time.Minute)
		repo := &fakeReminderRepo{
			reservations: []*domain.Reservation{upcomingReservation(1, 7, start)},
		}
		dispatcher := &captureDispatcher{}
		r := NewReminder(repo, dispatcher, 30*time.Minute, nopLogger{})

		r.tick(context.Background(), now)
		require.Len(t, dispatcher.jobs, 1)

		r.tick(context.Background(), start.Add(time.Minute))
		assert.Empty(t, r.notified)
	})

	t.Run("list failure skips the cycle", func(t *testing.T) {
		repo := &fakeReminderRepo{err: assert.AnError}
		dispatcher := &captureDispatcher{}
		r := NewReminder(repo, dispatcher, 30*time.Minute, nopLogger{})

		r.tick(context.Background(), now)

		assert.Empty(t, dispatcher.jobs)
	})
}
