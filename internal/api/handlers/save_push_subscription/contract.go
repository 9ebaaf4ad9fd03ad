package save_push_subscription

import (
	"context"

	"laundry-booking-service/internal/infra/storage/subscription"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *subscription.PushSubscription) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
