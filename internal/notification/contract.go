package notification

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"laundry-booking-service/internal/infra/storage/subscription"
)

// SubscriptionRepository интерфейс репозитория push-подписок
type SubscriptionRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*subscription.PushSubscription, error)
	ListAll(ctx context.Context) ([]*subscription.PushSubscription, error)
	Delete(ctx context.Context, endpoint string) error
}

// Sender интерфейс отправки web push уведомления (для тестирования)
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Metrics интерфейс метрик отправки уведомлений
type Metrics interface {
	IncNotification(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// WebPushSender отправитель через библиотеку webpush
type WebPushSender struct{}

// Send отправляет уведомление на push-сервис
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}
