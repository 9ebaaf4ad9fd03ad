package machinestate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"laundry-booking-service/internal/domain"
)

type fakeFeed struct {
	enabled   bool
	getStatus func(ctx context.Context, machine domain.ResourceID) (*domain.DeviceSample, error)
}

func (f *fakeFeed) Enabled() bool { return f.enabled }

func (f *fakeFeed) GetStatus(ctx context.Context, machine domain.ResourceID) (*domain.DeviceSample, error) {
	return f.getStatus(ctx, machine)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func sampleWithStatus(status domain.DisplayStatus, running bool) *domain.DeviceSample {
	return &domain.DeviceSample{
		Enabled:     true,
		Running:     running,
		StatusLabel: status,
		ObservedAt:  time.Now(),
	}
}

func TestPollerFiresOnFinishedTransition(t *testing.T) {
	statuses := []*domain.DeviceSample{
		sampleWithStatus(domain.StatusRunning, true),
		sampleWithStatus(domain.StatusFinished, false),
		sampleWithStatus(domain.StatusFinished, false),
	}
	call := 0
	feed := &fakeFeed{
		enabled: true,
		getStatus: func(ctx context.Context, machine domain.ResourceID) (*domain.DeviceSample, error) {
			s := statuses[call]
			call++
			return s, nil
		},
	}

	var finished []domain.ResourceID
	p := NewPoller(
		feed,
		NewReconciler(time.Minute),
		[]domain.ResourceID{domain.ResourceWasher},
		time.Second,
		func(machine domain.ResourceID) { finished = append(finished, machine) },
		nil,
		nopLogger{},
	)

	ctx := context.Background()
	p.pollOnce(ctx) // running
	p.pollOnce(ctx) // running -> finished
	p.pollOnce(ctx) // finished, без повторного уведомления

	assert.Equal(t, []domain.ResourceID{domain.ResourceWasher}, finished)
}

func TestPollerDiscardsResultAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	feed := &fakeFeed{
		enabled: true,
		getStatus: func(ctx context.Context, machine domain.ResourceID) (*domain.DeviceSample, error) {
			cancel() // отмена прилетела, пока запрос был в полете
			return sampleWithStatus(domain.StatusRunning, true), nil
		},
	}

	reconciler := NewReconciler(time.Minute)
	p := NewPoller(feed, reconciler, []domain.ResourceID{domain.ResourceWasher},
		time.Second, nil, nil, nopLogger{})

	p.pollOnce(ctx)

	// Результат выброшен: машина так и не получила наблюдения
	state := reconciler.Snapshot(domain.ResourceWasher, time.Now())
	assert.Equal(t, domain.StatusUnknown, state.DisplayStatus)
}

func TestPollerDisabledFeedDoesNotRun(t *testing.T) {
	feed := &fakeFeed{enabled: false}
	reconciler := NewReconciler(time.Minute)
	machines := []domain.ResourceID{domain.ResourceWasher, domain.ResourceDryer}
	p := NewPoller(feed, reconciler, machines,
		time.Second, nil, nil, nopLogger{})

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop for a disabled feed")
	}

	// Выключенный фид отображается как Unconfigured, а не Unknown
	for _, machine := range machines {
		state := reconciler.Snapshot(machine, time.Now())
		assert.Equal(t, domain.StatusUnconfigured, state.DisplayStatus)
		assert.False(t, state.IsStale)
	}
}
