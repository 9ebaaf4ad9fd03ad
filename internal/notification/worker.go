package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"laundry-booking-service/internal/domain"
	"laundry-booking-service/internal/infra/storage/subscription"
)

const (
	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeExpired = "expired"
)

// Job задание на рассылку push-уведомления.
// OwnerID == nil означает рассылку всем подписчикам
type Job struct {
	OwnerID *int64
	Title   string
	Body    string
}

// pushPayload тело push-сообщения для service worker'а на клиенте
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// WorkerPool пул воркеров для асинхронной отправки push-уведомлений
type WorkerPool struct {
	size             int
	jobs             chan Job
	subscriptionRepo SubscriptionRepository
	webpush          *webpush.Options
	sender           Sender
	metrics          Metrics
	logger           Logger
}

// NewWorkerPool создает новый пул воркеров
func NewWorkerPool(
	size int,
	subscriptionRepo SubscriptionRepository,
	webpushOptions *webpush.Options,
	metrics Metrics,
	logger Logger,
) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:             size,
		jobs:             make(chan Job, size),
		subscriptionRepo: subscriptionRepo,
		webpush:          webpushOptions,
		sender:           &WebPushSender{},
		metrics:          metrics,
		logger:           logger,
	}
}

// Start запускает воркеры; они живут до отмены контекста
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Info("notification worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.process(ctx, job)
		case <-ctx.Done():
			wp.logger.Info("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch ставит задание в очередь. Не блокирует вызывающего:
// при переполненной очереди задание отбрасывается
func (wp *WorkerPool) Dispatch(job Job) {
	select {
	case wp.jobs <- job:
	default:
		wp.logger.Warn("notification queue full, dropping %q", job.Title)
		if wp.metrics != nil {
			wp.metrics.IncNotification(outcomeFailed)
		}
	}
}

// BookingCreated уведомляет владельца о созданном бронировании
func (wp *WorkerPool) BookingCreated(res *domain.Reservation) {
	wp.Dispatch(Job{
		OwnerID: &res.OwnerID,
		Title:   "Laundry slot reserved",
		Body: fmt.Sprintf("%s reserved %s - %s",
			res.ResourceID,
			res.Interval.Start.Format("Mon 15:04"),
			res.Interval.End.Format("15:04")),
	})
}

// MachineFinished рассылает всем подписчикам уведомление о завершении
// цикла машины. Сигнатура совпадает с callback'ом поллера
func (wp *WorkerPool) MachineFinished(machine domain.ResourceID) {
	wp.Dispatch(Job{
		Title: "Laundry cycle finished",
		Body:  fmt.Sprintf("The %s has finished its cycle", machine),
	})
}

func (wp *WorkerPool) process(ctx context.Context, job Job) {
	var subs []*subscription.PushSubscription
	var err error

	if job.OwnerID != nil {
		subs, err = wp.subscriptionRepo.ListByOwner(ctx, *job.OwnerID)
	} else {
		subs, err = wp.subscriptionRepo.ListAll(ctx)
	}
	if err != nil {
		wp.logger.Error("failed to list subscriptions for %q: %v", job.Title, err)
		if wp.metrics != nil {
			wp.metrics.IncNotification(outcomeFailed)
		}
		return
	}

	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{Title: job.Title, Body: job.Body})
	if err != nil {
		wp.logger.Error("failed to marshal payload for %q: %v", job.Title, err)
		return
	}

	wp.logger.Info("sending %d notifications: %s", len(subs), job.Title)
	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub *subscription.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Error("failed to send notification to %s: %v", sub.Endpoint, err)
		if wp.metrics != nil {
			wp.metrics.IncNotification(outcomeFailed)
		}
		return
	}
	defer resp.Body.Close()

	// Push-сервис сообщает, что подписка больше не действительна
	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("subscription %s expired, deleting", sub.Endpoint)
		deleteCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := wp.subscriptionRepo.Delete(deleteCtx, sub.Endpoint); err != nil {
			wp.logger.Error("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
		if wp.metrics != nil {
			wp.metrics.IncNotification(outcomeExpired)
		}
		return
	}

	if wp.metrics != nil {
		wp.metrics.IncNotification(outcomeSent)
	}
}
