package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-service/internal/domain"
	"laundry-booking-service/internal/infra/storage/subscription"
)

type mockSender struct {
	sendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.sendFunc(payload, sub, options)
}

type fakeSubscriptionRepo struct {
	mu      sync.Mutex
	subs    []*subscription.PushSubscription
	deleted []string
}

func (f *fakeSubscriptionRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*subscription.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*subscription.PushSubscription
	for _, s := range f.subs {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) ListAll(ctx context.Context) ([]*subscription.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs, nil
}

func (f *fakeSubscriptionRepo) Delete(ctx context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, endpoint)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_BookingCreatedTargetsOwner(t *testing.T) {
	repo := &fakeSubscriptionRepo{
		subs: []*subscription.PushSubscription{
			{Endpoint: "https://push.example/owner", P256DH: "k1", Auth: "a1", OwnerID: 7},
			{Endpoint: "https://push.example/other", P256DH: "k2", Auth: "a2", OwnerID: 8},
		},
	}

	var wg sync.WaitGroup
	wg.Add(1)

	wp := NewWorkerPool(1, repo, &webpush.Options{}, nil, nopLogger{})
	wp.sender = &mockSender{
		sendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://push.example/owner", sub.Endpoint)

			var body pushPayload
			require.NoError(t, json.Unmarshal(payload, &body))
			assert.Equal(t, "Laundry slot reserved", body.Title)
			assert.Contains(t, body.Body, "washer")
			return pushResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	wp.BookingCreated(&domain.Reservation{
		ID:         1,
		ResourceID: domain.ResourceWasher,
		OwnerID:    7,
		Interval:   domain.Interval{Start: start, End: start.Add(2 * time.Hour)},
	})

	wg.Wait()
}

func TestWorkerPool_MachineFinishedBroadcasts(t *testing.T) {
	repo := &fakeSubscriptionRepo{
		subs: []*subscription.PushSubscription{
			{Endpoint: "https://push.example/a", OwnerID: 7},
			{Endpoint: "https://push.example/b", OwnerID: 8},
		},
	}

	var wg sync.WaitGroup
	wg.Add(2)

	wp := NewWorkerPool(1, repo, &webpush.Options{}, nil, nopLogger{})
	wp.sender = &mockSender{
		sendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			return pushResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.MachineFinished(domain.ResourceDryer)
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	repo := &fakeSubscriptionRepo{
		subs: []*subscription.PushSubscription{
			{Endpoint: "https://push.example/expired", OwnerID: 7},
		},
	}

	var wg sync.WaitGroup
	wg.Add(1)

	wp := NewWorkerPool(1, repo, &webpush.Options{}, nil, nopLogger{})
	wp.sender = &mockSender{
		sendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			return pushResponse(http.StatusGone), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.MachineFinished(domain.ResourceWasher)
	wg.Wait()

	// Даем воркеру закончить обработку 410 после самой отправки
	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.deleted) == 1 && repo.deleted[0] == "https://push.example/expired"
	}, time.Second, 10*time.Millisecond)
}

func TestWorkerPool_DispatchDoesNotBlockWhenFull(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	wp := NewWorkerPool(1, repo, &webpush.Options{}, nil, nopLogger{})

	// Воркеры не запущены: очередь забивается и лишние задания отбрасываются
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			wp.Dispatch(Job{Title: "t"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}
